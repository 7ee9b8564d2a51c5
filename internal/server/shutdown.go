package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests get to finish.
const ShutdownTimeout = 5 * time.Second

// GracefulShutdown waits for ctx to end, then stops the given servers.
// Nil servers are skipped.
func GracefulShutdown(ctx context.Context, logger *zap.Logger, servers ...*http.Server) error {
	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var firstErr error
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	logger.Info("Server exiting")
	return firstErr
}
