package toolserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"graphmem/app/config"
	"graphmem/app/service/graph"

	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const shutdownTimeout = 5 * time.Second

// Service exposes the graph store as MCP tools over stdio or streamable
// HTTP. The store serializes calls internally, so handlers are safe under
// concurrent dispatch.
type Service struct {
	cfg      *config.Config
	graphSvc *graph.Service
	mcp      *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		graphSvc: do.MustInvoke[*graph.Service](di),
	}

	s.mcp = server.NewMCPServer(
		s.cfg.Server.Name,
		s.cfg.Server.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcp.AddTool(newCreateEntitiesTool(), s.handleCreateEntities)
	s.mcp.AddTool(newCreateRelationsTool(), s.handleCreateRelations)
	s.mcp.AddTool(newAddObservationsTool(), s.handleAddObservations)
	s.mcp.AddTool(newDeleteEntitiesTool(), s.handleDeleteEntities)
	s.mcp.AddTool(newDeleteObservationsTool(), s.handleDeleteObservations)
	s.mcp.AddTool(newDeleteRelationsTool(), s.handleDeleteRelations)
	s.mcp.AddTool(newReadGraphTool(), s.handleReadGraph)
	s.mcp.AddTool(newSearchNodesTool(), s.handleSearchNodes)
	s.mcp.AddTool(newOpenNodesTool(), s.handleOpenNodes)

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	switch s.cfg.Server.Transport {
	case "http":
		return s.runHTTP(ctx)
	default:
		return s.runStdio(ctx)
	}
}

func (s *Service) runStdio(ctx context.Context) error {
	slog.Info("Serving MCP tools on stdio")

	srv := server.NewStdioServer(s.mcp)

	err := srv.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return oops.Errorf("stdio transport failed: %w", err)
	}

	return nil
}

func (s *Service) runHTTP(ctx context.Context) error {
	slog.Info("Serving MCP tools over HTTP", "addr", s.cfg.Server.HTTPAddr)

	srv := server.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(s.cfg.Server.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return oops.Errorf("http transport failed: %w", err)
		}

		return nil
	}
}
