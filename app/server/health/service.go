package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"graphmem/app/config"
	"graphmem/app/service/graph"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Service serves a liveness endpoint with graph counters, for supervisors
// that probe the http transport deployment.
type Service struct {
	cfg      *config.Config
	graphSvc *graph.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		graphSvc: do.MustInvoke[*graph.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/health", s.handleHealth)

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Health.Enabled {
		return nil
	}

	slog.Info("Serving health endpoint", "addr", s.cfg.Health.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Health.Addr)
	}()

	select {
	case <-ctx.Done():
		return s.app.Shutdown()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return oops.Errorf("health endpoint failed: %w", err)
		}

		return nil
	}
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	entities, relations := s.graphSvc.Counts()

	return c.JSON(fiber.Map{
		"status":    "ok",
		"entities":  entities,
		"relations": relations,
	})
}
