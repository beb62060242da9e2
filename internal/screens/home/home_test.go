package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/store"
)

func TestHomeScreen_Counts(t *testing.T) {
	h := New(nil, func(context.Context) (store.Counts, error) {
		return store.Counts{Students: 2, Instructors: 1, Classes: 5, CompletedClasses: 3}, nil
	})

	cmd := h.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	h.Update(cmd())

	view := h.View(100, 30)
	for _, want := range []string{"2 students", "1 instructors", "5 classes", "3 completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeScreen_CountsError(t *testing.T) {
	h := New(nil, func(context.Context) (store.Counts, error) {
		return store.Counts{}, errors.New("database is locked")
	})
	h.Update(h.Refresh()())
	if !strings.Contains(h.View(100, 30), "database is locked") {
		t.Error("expected error in view")
	}
}

func TestHomeScreen_StaleCountsIgnored(t *testing.T) {
	calls := 0
	h := New(nil, func(context.Context) (store.Counts, error) {
		calls++
		return store.Counts{Students: calls}, nil
	})
	stale := h.Refresh()
	fresh := h.Refresh()

	h.Update(stale())
	h.Update(fresh())
	if h.counts.Students != 2 {
		t.Errorf("Students = %d, want 2", h.counts.Students)
	}
	h.Update(stale())
	if h.counts.Students != 2 {
		t.Errorf("stale load applied: Students = %d", h.counts.Students)
	}
}

func TestHomeScreen_NoCountsFunc(t *testing.T) {
	h := New(nil, nil)
	if h.Init() != nil {
		t.Error("expected no command without a counts loader")
	}
}

func TestHomeScreen_MenuPushesScreens(t *testing.T) {
	h := New(nil, nil)
	want := []string{"Students", "Week of", "Schedule a Class", "Activity"}
	for i, title := range want {
		if i > 0 {
			h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
		}
		_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
		if cmd == nil {
			t.Fatalf("item %d: expected a command", i)
		}
		push, ok := cmd().(router.PushScreenMsg)
		if !ok {
			t.Fatalf("item %d: expected PushScreenMsg", i)
		}
		if !strings.HasPrefix(push.Screen.Title(), title) {
			t.Errorf("item %d: pushed %q, want %q", i, push.Screen.Title(), title)
		}
	}
}
