package students

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/router"
)

func testStudents() []roster.Student {
	return []roster.Student{
		{ID: "s1", FirstName: "Alice", LastName: "Bouchard", Status: roster.StudentActive, CompletedHours: 4},
		{ID: "s2", FirstName: "Bob", LastName: "Gagnon", Status: roster.StudentActive, CompletedHours: 12.5},
	}
}

func loaded(s *StudentsScreen) {
	s.Update(studentsLoadedMsg{gen: s.gen.Next(), students: testStudents()})
}

func TestStudentsScreen_ShowsLoadedStudents(t *testing.T) {
	s := New(nil)
	loaded(s)

	view := s.View(100, 30)
	for _, want := range []string{"Alice Bouchard", "Bob Gagnon", "12.5h"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStudentsScreen_DropsStaleLoad(t *testing.T) {
	s := New(nil)
	stale := s.gen.Next()
	loaded(s)

	s.Update(studentsLoadedMsg{gen: stale, students: nil})
	if len(s.students) != 2 {
		t.Errorf("stale load replaced the list: got %d students", len(s.students))
	}
}

func TestStudentsScreen_LoadError(t *testing.T) {
	s := New(nil)
	s.Update(studentsLoadedMsg{gen: s.gen.Next(), err: errors.New("disk gone")})
	if !strings.Contains(s.View(80, 24), "disk gone") {
		t.Error("expected error in view")
	}
}

func TestStudentsScreen_EnterPushesProfile(t *testing.T) {
	s := New(nil)
	loaded(s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "Student" {
		t.Errorf("pushed screen title = %q", push.Screen.Title())
	}
}

func TestStudentsScreen_EnterWithNoStudents(t *testing.T) {
	s := New(nil)
	s.Update(studentsLoadedMsg{gen: s.gen.Next()})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command with an empty list")
	}
}

func TestStudentsScreen_Navigation(t *testing.T) {
	s := New(nil)
	loaded(s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d after up at top, want 0", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d after moving past the end, want 1", s.selected)
	}
}

func TestStudentsScreen_SearchRequeries(t *testing.T) {
	s := New(nil)
	loaded(s)
	before := s.gen.Current()

	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	if !s.searching {
		t.Fatal("expected search mode after /")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if cmd == nil {
		t.Error("expected a reload command while typing")
	}
	if s.gen.Current() == before {
		t.Error("typing should start a new load")
	}
	if s.search.Value() != "b" {
		t.Errorf("search value = %q, want %q", s.search.Value(), "b")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.searching || s.search.Value() != "" {
		t.Error("esc should leave search mode and clear the text")
	}
}

func TestStudentsScreen_EscPops(t *testing.T) {
	s := New(nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
