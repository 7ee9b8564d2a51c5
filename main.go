// @title           Hidden Gems API
// @version         1.0
// @description     Discovers lesser-known places near the device or a named location.

// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/hidden-gems/internal/pkg/config"
	"github.com/FACorreiaa/hidden-gems/internal/server"
	"github.com/FACorreiaa/hidden-gems/pkg/logger"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("service", cfg.Observability.ServiceName), zap.String("version", version)); err != nil {
		return err
	}
	lg := logger.Log
	defer func() { _ = lg.Sync() }()

	otelShutdown, err := server.InitObservability(cfg.Observability, version, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			lg.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer srv.Close()

	srv.SetRouter(server.SetupRouter(srv))
	httpServer := srv.HTTPServer()
	pprofServer := server.StartPprofServer(cfg.Observability.PprofAddr, lg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server starting", zap.String("port", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return server.GracefulShutdown(gctx, lg, httpServer, pprofServer)
	})

	if err := g.Wait(); err != nil {
		lg.Error("Server error", zap.Error(err))
		return err
	}
	lg.Info("Graceful shutdown complete")
	return nil
}
