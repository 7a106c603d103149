package api

import (
	"context"
	"net/http"
	"time"

	"github.com/arleipolo/storefront-backend/pkg/logger"
)

const shutdownGrace = 10 * time.Second

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests before returning.
func Serve(ctx context.Context, addr string, handler http.Handler, logg *logger.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if logg != nil {
		logg.Info(ctx, "shutting down http server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
