// Package server assembles the dashboard: configuration, infrastructure,
// echo middleware and routes, wrapped in an http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/handler"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/middleware"
	"github.com/iliyamo/talkmaster-dashboard/internal/router"
	"github.com/iliyamo/talkmaster-dashboard/internal/service"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
	"github.com/iliyamo/talkmaster-dashboard/internal/store"
	"github.com/iliyamo/talkmaster-dashboard/internal/view"
)

const shutdownTimeout = 10 * time.Second

// Server is a ready-to-run dashboard.
type Server struct {
	Echo *echo.Echo
	http *http.Server
	rdb  *redis.Client
	log  *slog.Logger
}

// Infra is the optional infrastructure a Server uses. Zero values disable
// the matching feature.
type Infra struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Events    config.EventsConfig
}

// LoadInfra reads the optional infrastructure settings from the environment
// and connects to Redis when one is configured.
func LoadInfra() Infra {
	return Infra{
		Redis:     config.NewRedisClient(),
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Events:    config.LoadEventsConfig(),
	}
}

// New wires every component of the dashboard.
func New(cfg config.Config, infra Infra, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	api, err := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		return nil, err
	}
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	st := store.FromConfig(infra.Cache, infra.Redis, logger)
	var events lifecycle.Publisher
	if pub := service.NewPublisher(infra.Events); pub != nil {
		events = pub
	}
	lc := lifecycle.New(st, events, logger)
	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	d := handler.NewDashboard(api, st, lc, codec, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(EchoLevel(cfg.LogLevel))
	e.Renderer = renderer
	e.HTTPErrorHandler = d.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Session(codec))

	router.RegisterRoutes(e, d, router.Options{
		Cache:     infra.Cache,
		RateLimit: infra.RateLimit,
		Redis:     infra.Redis,

		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.ProxyHeaders(handlers.CompressHandler(e)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("dashboard configured",
		"env", cfg.Env,
		"api", api.BaseURL(),
		"redis", infra.Redis != nil,
		"events", events != nil,
	)
	return &Server{Echo: e, http: srv, rdb: infra.Redis, log: logger}, nil
}

// Handler is the full handler chain served by Run.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			s.close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.close()
	s.log.Info("server stopped")
	return err
}

func (s *Server) close() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
}

// EchoLevel maps a LOG_LEVEL name onto echo's logger level.
func EchoLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
