package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/drivedesk/internal/importer"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/store"
	"github.com/abhisek/drivedesk/internal/validate"
)

var notFoundErrs = []error{
	school.ErrStudentNotFound,
	school.ErrInstructorNotFound,
	school.ErrGroupNotFound,
	school.ErrClassNotFound,
	store.ErrNotFound,
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *server) httpErrorHandler(err error, c echo.Context) {
	var (
		code     int
		message  any
		herr     *echo.HTTPError
		conflict *schedule.ConflictError
		taken    *schedule.TitleTakenError
	)

	switch {
	case errors.As(err, &herr):
		if herr.Internal != nil {
			if inner, ok := herr.Internal.(*echo.HTTPError); ok {
				herr = inner
			}
		}
		code = herr.Code
		message = herr.Message
	case validate.Fields(err) != nil:
		code = http.StatusBadRequest
		message = validate.Fields(err)
	case errors.Is(err, school.ErrInvalid), errors.Is(err, importer.ErrInvalidDocument):
		code = http.StatusBadRequest
		message = err.Error()
	case isNotFound(err):
		code = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &conflict):
		code = http.StatusConflict
		message = echo.Map{"error": err.Error(), "existing": conflict.Existing}
	case errors.As(err, &taken):
		code = http.StatusConflict
		message = echo.Map{"error": err.Error(), "title": taken.Title}
	default: // any other error is a server error
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
		s.log.Error("request failed", err, map[string]any{
			"method": c.Request().Method,
			"path":   c.Path(),
		})
	}

	if c.Echo().Debug && code >= http.StatusInternalServerError {
		message = err.Error()
	}
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
