package api

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/store"
)

type handlers struct {
	svc *school.Service
}

func (h *handlers) register(g *echo.Group) {
	g.GET("/curriculum", h.curriculum)

	g.GET("/students", h.studentQuery)
	g.POST("/students", h.studentCreate)
	g.GET("/students/:id", h.studentRetrieve)
	g.GET("/students/:id/profile", h.studentProfile)

	g.GET("/instructors", h.instructorQuery)
	g.POST("/instructors", h.instructorCreate)

	g.GET("/groups", h.groupQuery)
	g.POST("/groups", h.groupCreate)

	g.GET("/classes", h.classQuery)
	g.POST("/classes", h.classSchedule)
	g.POST("/classes/:id/check-in", h.classCheckIn)
	g.POST("/classes/:id/cancel", h.classCancel)

	g.GET("/agenda", h.agenda)

	g.GET("/schedule/options", h.scheduleOptions)
	g.POST("/schedule/conflict", h.scheduleConflict)
	g.POST("/schedule/titles", h.scheduleTitles)

	g.GET("/activity", h.activityQuery)

	g.GET("/settings", h.settingsQuery)
	g.PUT("/settings", h.settingsUpdate)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", school.ErrInvalid, fmt.Sprintf(format, args...))
}

// Curriculum

func (h *handlers) curriculum(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"required_hours": curriculum.RequiredHours,
		"sessions":       curriculum.Template(),
	})
}

// Roster

func (h *handlers) studentQuery(c echo.Context) error {
	res, err := h.svc.Students(c.Request().Context(), store.StudentFilter{
		GroupID: c.QueryParam("group_id"),
		Status:  roster.StudentStatus(c.QueryParam("status")),
		Search:  c.QueryParam("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) studentCreate(c echo.Context) error {
	data := new(roster.Student)
	if err := c.Bind(data); err != nil {
		return err
	}
	data.ID = ""
	if err := h.svc.AddStudent(c.Request().Context(), data); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, data)
}

func (h *handlers) studentRetrieve(c echo.Context) error {
	st, err := h.svc.Student(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *handlers) studentProfile(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handlers) instructorQuery(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	res, err := h.svc.Instructors(c.Request().Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) instructorCreate(c echo.Context) error {
	data := &roster.Instructor{Active: true}
	if err := c.Bind(data); err != nil {
		return err
	}
	data.ID = ""
	if err := h.svc.AddInstructor(c.Request().Context(), data); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, data)
}

func (h *handlers) groupQuery(c echo.Context) error {
	res, err := h.svc.Groups(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) groupCreate(c echo.Context) error {
	data := new(roster.Group)
	if err := c.Bind(data); err != nil {
		return err
	}
	data.ID = ""
	if err := h.svc.AddGroup(c.Request().Context(), data); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, data)
}

// Classes

func (h *handlers) classQuery(c echo.Context) error {
	f := store.ClassFilter{
		StudentID:    c.QueryParam("student_id"),
		GroupID:      c.QueryParam("group_id"),
		InstructorID: c.QueryParam("instructor_id"),
		DateFrom:     c.QueryParam("from"),
		DateTo:       c.QueryParam("to"),
		Kind:         c.QueryParam("kind"),
	}
	if d := c.QueryParam("date"); d != "" {
		f.DateFrom, f.DateTo = d, d
	}
	res, err := h.svc.Classes(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) classSchedule(c echo.Context) error {
	req := new(schedule.SlotRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	slot, err := req.Slot()
	if err != nil {
		return badRequest("%v", err)
	}
	created, err := h.svc.Schedule(c.Request().Context(), slot)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

type checkInRequest struct {
	Status   classes.AttendanceStatus `json:"status"`
	Feedback string                   `json:"feedback"`
}

func (h *handlers) classCheckIn(c echo.Context) error {
	req := new(checkInRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	rec, err := h.svc.CheckIn(c.Request().Context(), c.Param("id"), req.Status, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *handlers) classCancel(c echo.Context) error {
	if err := h.svc.CancelClass(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) agenda(c echo.Context) error {
	week := time.Now()
	if w := c.QueryParam("week"); w != "" {
		t, err := time.Parse(time.DateOnly, w)
		if err != nil {
			return badRequest("week must be YYYY-MM-DD")
		}
		week = t
	}
	res, err := h.svc.Agenda(c.Request().Context(), week)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Scheduling helpers

func (h *handlers) scheduleOptions(c echo.Context) error {
	res, err := h.svc.SchedulingOptions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

type conflictRequest struct {
	InstructorID    string `json:"instructor_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *handlers) scheduleConflict(c echo.Context) error {
	req := new(conflictRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	end := req.EndTime
	if end == "" && req.DurationMinutes > 0 {
		end = schedule.EndTime(req.StartTime, req.DurationMinutes)
	}
	existing, err := h.svc.CheckConflict(c.Request().Context(), req.InstructorID, req.Date, req.StartTime, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"conflict": existing != nil,
		"existing": existing,
	})
}

type titlesRequest struct {
	Kind       string   `json:"kind"`
	GroupID    string   `json:"group_id"`
	StudentIDs []string `json:"student_ids"`
}

func (h *handlers) scheduleTitles(c echo.Context) error {
	req := new(titlesRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	p, err := h.svc.TitleOptions(c.Request().Context(), curriculum.ParseKind(req.Kind), req.GroupID, req.StudentIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Activity & settings

func (h *handlers) activityQuery(c echo.Context) error {
	opts := store.QueryOpts{
		Limit:      50,
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
	}
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return badRequest("limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	res, err := h.svc.Activity(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) settingsQuery(c echo.Context) error {
	res, err := h.svc.Settings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) settingsUpdate(c echo.Context) error {
	var req map[string]string
	if err := c.Bind(&req); err != nil {
		return err
	}
	known := school.SettingKeys()
	for k := range req {
		if !slices.Contains(known, k) {
			return badRequest("unknown setting %q", k)
		}
	}
	ctx := c.Request().Context()
	for _, k := range known {
		if v, ok := req[k]; ok {
			if err := h.svc.SetSetting(ctx, k, v); err != nil {
				return err
			}
		}
	}
	return h.settingsQuery(c)
}
