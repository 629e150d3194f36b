// cmd/server/main.go
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

	"deskmate/internal/automation"
	"deskmate/internal/config"
	"deskmate/internal/logging"
	"deskmate/internal/mind"
	"deskmate/internal/server"
	"deskmate/internal/storage"
	v "deskmate/internal/version"
)

func main() {
	cfg := config.New()
	log := logging.New(cfg.LogLevel, cfg.LogFile)
	log.Info().Str("version", v.AppVersion).Msgf("Starting %s server...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	var exec mind.Executor
	if cfg.Executor == "echo" {
		exec = automation.EchoExecutor{}
	} else {
		exec = automation.NewLocalExecutor(log)
	}

	engine, err := mind.New(store, exec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: server.New(engine, log).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server exited cleanly")
}
