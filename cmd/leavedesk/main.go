package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"leavedesk/internal/app"
	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
	"leavedesk/internal/gateway"
	"leavedesk/internal/httpserver"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/logging"
	"leavedesk/internal/platform/retry"
	"leavedesk/internal/platform/version"
	"leavedesk/internal/session"
)

const (
	probeTimeout     = 5 * time.Second
	shutdownTimeout  = 10 * time.Second
	probeMaxAttempts = 5
	probeBackoff     = time.Second
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// waitForBackend retries the unauthenticated probe until the backend answers.
// Transport failures and 5xx responses are transient; anything else means the
// backend is up but misconfigured, so there is no point retrying.
func waitForBackend(ctx context.Context, gw domain.Gateway) error {
	policy := retry.Policy{
		MaxAttempts:    probeMaxAttempts,
		InitialBackoff: probeBackoff,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Backend not reachable yet", "attempt", attempt, "backoff", backoff, "error", err)
		},
	}
	classify := func(err error) retry.Action {
		var structured *apperrors.Error
		if errors.As(err, &structured) {
			if structured.Type == apperrors.TypeNetwork {
				return retry.Retry
			}
			if structured.Type == apperrors.TypeBackend && structured.Status >= 500 {
				return retry.Retry
			}
		}
		return retry.Stop
	}
	return retry.Do(ctx, policy, classify, func() error {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		return gw.Probe(probeCtx)
	})
}

func runGracefulShutdown(ctx context.Context, srv *httpserver.Server, svc *app.Service) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		svc.Stop()
		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Starting leavedesk", "version", version.Get().Version, "env", cfg.AppEnv, "backend", cfg.BackendURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore(cfg.SessionFile)
	gw := gateway.New(cfg.BackendURL, cfg.HTTPTimeout, store)
	sync := app.NewSynchronizer(gw, store, clockwork.NewRealClock(), cfg.PollInterval)
	svc := app.NewService(ctx, gw, store, sync)

	if err := waitForBackend(ctx, gw); err != nil {
		slog.Error("Backend unavailable", "error", err)
		os.Exit(1)
	}

	if svc.Resume() {
		slog.Info("Polling started from restored session")
	} else {
		slog.Info("No persisted session, waiting for login")
	}

	srv := httpserver.NewServer(cfg, svc)
	done := runGracefulShutdown(ctx, srv, svc)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
