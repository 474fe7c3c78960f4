package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Serve runs the app on ln until ctx is cancelled, then drains HTTP
// requests and sessions within the configured shutdown timeout.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{Handler: app.Handler}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Server listening", "addr", ln.Addr().String(), "project", app.Engine.Name)
		serverErrors <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
			app.Logger.Info("Shutdown requested", "signal", sc.Signal().String())
		}
	}

	timeout := app.Config.Server.ShutdownTimeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Sessions first: streaming handlers only return once their session ends.
	if err := app.Close(shutdownCtx); err != nil {
		app.Logger.Warn("Sessions did not close cleanly", "err", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn("Graceful shutdown did not complete", "timeout", timeout, "err", err)
		if err := srv.Close(); err != nil {
			app.Logger.Error("Error killing server", "err", err)
		}
	}
	app.Logger.Info("Server stopped")
	return serveErr
}
