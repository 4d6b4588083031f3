package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/mention"
	"github.com/TMG-AI/liz-dashboard/internal/store"
	"github.com/TMG-AI/liz-dashboard/schema"
)

// MentionStore is the slice of the store the API needs.
type MentionStore interface {
	InsertIfNew(ctx context.Context, m mention.Mention) (bool, error)
	Range(ctx context.Context, from, to time.Time) ([]mention.Mention, error)
	TrimOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (store.Stats, error)
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	store     MentionStore
	validator *schema.Validator
	logger    zerolog.Logger
}

func NewServer(st MentionStore, validator *schema.Validator, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		store:     st,
		validator: validator,
		logger:    logger.With().Str("component", "httpapi").Logger(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/mentions", s.handleListMentions)
	api.POST("/mentions", s.handleInsertMention)
	api.POST("/webhooks/meltwater", s.handleMeltwaterWebhook)

	return s
}

// Start blocks until the listener fails or the context is cancelled, then
// drains in-flight requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("Request handled")
			return nil
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return serverError(c, http.StatusServiceUnavailable, "store unreachable")
	}
	return success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.store.Stats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to collect stats")
		return serverError(c, http.StatusInternalServerError, "failed to collect stats")
	}
	return success(c, http.StatusOK, stats)
}
