package main

import (
	"context"
	"graphmem/app/config"
	"graphmem/app/server/health"
	"graphmem/app/server/toolserver"
	"graphmem/app/service/graph"
	"graphmem/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, graph.New)
	do.Provide(di, toolserver.New)
	do.Provide(di, health.New)

	slog.Info("Service started",
		"name", cfg.Server.Name,
		"version", cfg.Server.Version,
		"transport", cfg.Server.Transport)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	g, runCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		return do.MustInvoke[*health.Service](di).Run(runCtx)
	})
	g.Go(func() error {
		defer cancel()

		return do.MustInvoke[*toolserver.Service](di).Run(runCtx)
	})

	if err = g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
