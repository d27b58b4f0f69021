package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grievance-portal/internal/app"
	"grievance-portal/internal/config"
	"grievance-portal/internal/router"
	"grievance-portal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	l := logger.New(cfg.Env)
	if err != nil {
		l.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeBackend, err := app.Build(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("backend init failed")
	}
	defer closeBackend()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(l, svc, cfg),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("shutdown")
	}
	l.Info().Msg("shutdown complete")
}
