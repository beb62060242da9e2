package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/store"
)

type env struct {
	srv        Server
	svc        *school.Service
	instructor *roster.Instructor
	group      *roster.Group
	student    *roster.Student
}

func setup(t *testing.T) *env {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := school.NewService(school.ReposFrom(st), nil, "api-test")
	ctx := context.Background()
	e := &env{
		svc:        svc,
		instructor: &roster.Instructor{FirstName: "Marie", LastName: "Tremblay", Active: true},
		group:      &roster.Group{Name: "Spring cohort"},
	}
	require.NoError(t, svc.AddInstructor(ctx, e.instructor))
	require.NoError(t, svc.AddGroup(ctx, e.group))
	e.student = &roster.Student{FirstName: "Alice", LastName: "Roy", GroupID: e.group.ID}
	require.NoError(t, svc.AddStudent(ctx, e.student))

	e.srv = NewServer(&Options{Service: svc, DisableReqLogs: true, Version: "test"})
	return e
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *env) practical(title, date, start string) map[string]any {
	return map[string]any{
		"kind":             "practical",
		"date":             date,
		"start_time":       start,
		"duration_minutes": 60,
		"instructor_id":    e.instructor.ID,
		"title":            title,
		"student_ids":      []string{e.student.ID},
	}
}

func TestHome(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestCurriculum(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/v1/curriculum/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		RequiredHours float64          `json:"required_hours"`
		Sessions      []map[string]any `json:"sessions"`
	}](t, rec)
	assert.InDelta(t, 39.0, body.RequiredHours, 1e-9)
	assert.Len(t, body.Sessions, 27)
}

func TestStudents(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{"list", http.MethodGet, "/v1/students", nil, http.StatusOK},
		{"retrieve", http.MethodGet, "/v1/students/" + e.student.ID, nil, http.StatusOK},
		{"retrieve missing", http.MethodGet, "/v1/students/nope", nil, http.StatusNotFound},
		{"profile", http.MethodGet, "/v1/students/" + e.student.ID + "/profile", nil, http.StatusOK},
		{"profile missing", http.MethodGet, "/v1/students/nope/profile", nil, http.StatusNotFound},
		{"create", http.MethodPost, "/v1/students", map[string]any{"first_name": "Bob", "last_name": "Gagnon"}, http.StatusCreated},
		{"create invalid", http.MethodPost, "/v1/students", map[string]any{"first_name": "Bob", "email": "x"}, http.StatusBadRequest},
		{"create unknown group", http.MethodPost, "/v1/students", map[string]any{"first_name": "Bob", "last_name": "G", "group_id": "zz"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateStudent_ValidationFieldMap(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/v1/students", map[string]any{"first_name": " ", "email": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := decode[map[string]string](t, rec)
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "last_name")
	assert.Contains(t, fields, "email")
}

func TestInstructorsAndGroups(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodPost, "/v1/instructors", map[string]any{"first_name": "Luc", "last_name": "Pelletier"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode[roster.Instructor](t, rec).Active)

	rec = e.do(t, http.MethodGet, "/v1/instructors?active=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]roster.Instructor](t, rec), 2)

	rec = e.do(t, http.MethodPost, "/v1/groups", map[string]any{"name": "Fall", "start_date": "2026-09-01"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(t, http.MethodPost, "/v1/groups", map[string]any{"name": "Bad", "start_date": "Sept"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/groups", nil)
	assert.Len(t, decode[[]roster.Group](t, rec), 2)
}

func TestScheduleAndCheckIn(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodPost, "/v1/classes", e.practical("In-Car Session 1", "2026-03-02", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[[]map[string]any](t, rec)
	require.Len(t, created, 1)
	id := created[0]["id"].(string)

	// Same title for the same student.
	rec = e.do(t, http.MethodPost, "/v1/classes", e.practical("In-Car Session 1", "2026-03-03", "10:00"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Instructor double-booked.
	rec = e.do(t, http.MethodPost, "/v1/classes", e.practical("In-Car Session 2", "2026-03-02", "10:00"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec), "existing")

	rec = e.do(t, http.MethodPost, "/v1/classes", map[string]any{"kind": "observation"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/classes?date=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = e.do(t, http.MethodPost, "/v1/classes/"+id+"/check-in", map[string]any{"status": "completed", "feedback": "smooth"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decode[map[string]any](t, rec)["completion_status"])

	rec = e.do(t, http.MethodPost, "/v1/classes/"+id+"/check-in", map[string]any{"status": "present"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.do(t, http.MethodPost, "/v1/classes/missing/check-in", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/students/"+e.student.ID+"/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[school.Profile](t, rec)
	assert.Equal(t, 1, p.Summary.CompletedSessionCount)
	assert.Equal(t, 3, p.Summary.PercentComplete)
}

func TestAgendaEndpoint(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/v1/classes", e.practical("In-Car Session 1", "2026-03-04", "09:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/agenda?week=2026-03-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var week struct {
		Days []struct {
			Date    string           `json:"date"`
			Classes []map[string]any `json:"classes"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2026-03-02", week.Days[0].Date)
	assert.Len(t, week.Days[2].Classes, 1)

	rec = e.do(t, http.MethodGet, "/v1/agenda?week=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHelpers(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/v1/classes", e.practical("In-Car Session 1", "2026-03-02", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/v1/schedule/conflict", map[string]any{
		"instructor_id": e.instructor.ID, "date": "2026-03-02", "start_time": "10:00", "duration_minutes": 60,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["conflict"])

	rec = e.do(t, http.MethodPost, "/v1/schedule/conflict", map[string]any{
		"instructor_id": e.instructor.ID, "date": "2026-03-02", "start_time": "10:30", "end_time": "11:30",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["conflict"])

	rec = e.do(t, http.MethodPost, "/v1/schedule/titles", map[string]any{
		"kind": "practical", "student_ids": []string{e.student.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	part := decode[struct {
		Available   []string `json:"available"`
		Unavailable []string `json:"unavailable"`
	}](t, rec)
	assert.Equal(t, []string{"In-Car Session 1"}, part.Unavailable)
	assert.Len(t, part.Available, 14)

	rec = e.do(t, http.MethodGet, "/v1/schedule/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[school.Options](t, rec)
	assert.Len(t, opts.Instructors, 1)
	assert.Len(t, opts.Students, 1)
}

func TestActivityAndSettings(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodGet, "/v1/activity?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.ActivityEvent](t, rec), 2)
	rec = e.do(t, http.MethodGet, "/v1/activity?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "exact", decode[map[string]string](t, rec)[school.SettingOverlapCheck])

	rec = e.do(t, http.MethodPut, "/v1/settings", map[string]string{school.SettingOverlapCheck: "overlap"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "overlap", decode[map[string]string](t, rec)[school.SettingOverlapCheck])

	rec = e.do(t, http.MethodPut, "/v1/settings", map[string]string{"theme": "dark"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.do(t, http.MethodPut, "/v1/settings", map[string]string{school.SettingGridHours: "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/v1/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
