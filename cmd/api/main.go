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

	"golang.org/x/sync/errgroup"

	"github.com/sp23/transit-system/internal/api"
	"github.com/sp23/transit-system/internal/api/handler"
	"github.com/sp23/transit-system/internal/core/service"
	"github.com/sp23/transit-system/internal/infrastructure/config"
	"github.com/sp23/transit-system/internal/infrastructure/seed"
	"github.com/sp23/transit-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Transit System API
// @version      1.0
// @description  Stations and accounts for the transit network. Authentication uses an HTTP-only session cookie.
// @BasePath     /

// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        transit.session

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "transit-api",
	})
	log.Info().
		Str("env", cfg.Env).
		Str("store", cfg.Drivers.Store).
		Str("sessions", cfg.Drivers.Session).
		Str("audit", cfg.Drivers.Audit).
		Msg("starting transit api")

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, data, st.users, st.stations, log); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	auth := service.NewAuthService(st.users, st.sessions, st.throttle, st.audit, service.AuthOptions{
		Secret:      []byte(cfg.Session.Secret),
		SessionTTL:  cfg.Session.TTL,
		MaxFailures: cfg.Login.MaxFailures,
		Lockout:     cfg.Login.Lockout,
	}, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     auth,
		Stations: service.NewStationService(st.stations, st.users, st.audit, log),
		Users:    service.NewUserService(st.users, st.audit, log),
		Logger:   log,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		Readiness:     st.checks,
		EnableMetrics: true,
		EnableSwagger: !cfg.IsProduction(),
	})

	// workers outlive the request context so queued audit events flush after
	// the server has drained
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if st.dispatcher != nil {
		st.dispatcher.Start(workerCtx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)

		stopWorkers()
		if st.dispatcher != nil {
			st.dispatcher.Wait()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}
