// Package api serves the school operations over HTTP with echo.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/abhisek/drivedesk/internal/logging"
	"github.com/abhisek/drivedesk/internal/school"
)

type (
	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		Version        string
		Service        *school.Service
		Logger         *logging.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		log  *logging.Logger
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		log:  opts.Logger,
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.WARN)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// panics surface in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = s.httpErrorHandler
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	h := &handlers{svc: s.opts.Service}
	h.register(v1)
}

func (s *server) Start() error {
	s.log.Info("api listening", s.opts.Address)
	err := s.app.Start(s.opts.Address)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": "drivedesk",
		"version": s.opts.Version,
	})
}
