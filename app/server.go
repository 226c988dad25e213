package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// ListenAndServe serves the application until ctx is canceled, then shuts down gracefully
func (a *Application) ListenAndServe(ctx context.Context) error {
	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + a.Config.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		log.Printf("Preview endpoint: GET http://localhost:%s/catalog/preview?page=1", a.Config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Printf("✓ Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
