package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ViFerX/research-assistant/internal/config"
	"github.com/ViFerX/research-assistant/internal/mockserver"
)

// runMock serves the in-memory backend until interrupted. Useful for demos
// and for running the CLI without the real platform.
func runMock(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("mock takes no arguments, got %q", args)
	}

	srv := mockserver.New(slog.Default())
	server := &http.Server{
		Addr:              ":" + cfg.Mock.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mock backend listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("mock backend: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
