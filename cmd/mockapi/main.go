// Command mockapi serves the clinic backend API from an in-memory store so
// vetdesk can be developed and demoed without the real backend. Data comes
// from a YAML seed with dates laid out relative to startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/config"
	"github.com/ivenhartford/LCH-sub002/internal/mockapi"
	"github.com/ivenhartford/LCH-sub002/internal/mockapi/fixtures"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting clinic stub", "env", cfg.Env, "addr", cfg.MockAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Demo setups sometimes write the seed file a moment after the stub
	// starts, so the load retries briefly before giving up.
	var seed fixtures.Seed
	if err := withRetry(ctx, log, "load seed data", 3, time.Second, func() error {
		var loadErr error
		seed, loadErr = fixtures.Load(cfg.MockSeedFile)
		return loadErr
	}); err != nil {
		log.Error("failed to load seed data", "error", err)
		panic("failed to load seed data: " + err.Error())
	}

	store, err := mockapi.NewStore(seed, time.Now)
	if err != nil {
		log.Error("failed to build store", "error", err)
		panic("failed to build store: " + err.Error())
	}
	log.Info("seed data loaded",
		"clients", len(seed.Clients),
		"patients", len(seed.Patients),
		"appointments", len(seed.Appointments),
	)

	engine := mockapi.NewRouter(cfg, store, log)
	srv := &http.Server{Addr: cfg.MockAddr, Handler: engine}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("clinic stub listening", "addr", cfg.MockAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
