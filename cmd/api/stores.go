package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sp23/transit-system/internal/api/handler"
	"github.com/sp23/transit-system/internal/core/ports"
	"github.com/sp23/transit-system/internal/core/service"
	"github.com/sp23/transit-system/internal/infrastructure/config"
	"github.com/sp23/transit-system/internal/infrastructure/db/mongo"
	"github.com/sp23/transit-system/internal/infrastructure/db/postgres"
	"github.com/sp23/transit-system/internal/infrastructure/db/redis"
	"github.com/sp23/transit-system/internal/infrastructure/memory"
	"github.com/sp23/transit-system/internal/infrastructure/queue"
)

// stores holds the adapters selected by the driver settings.
type stores struct {
	users    ports.UserRepository
	stations ports.StationRepository
	sessions ports.SessionStore
	throttle service.LoginThrottle
	audit    ports.AuditRepository

	dispatcher *queue.Dispatcher
	checks     map[string]handler.CheckFunc
	closers    []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.CheckFunc{}}
	ok := false
	defer func() {
		if !ok {
			st.close()
		}
	}()

	switch cfg.Drivers.Store {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.Postgres.URL, log); err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)
		st.checks["postgres"] = pool.Ping
		st.users = postgres.NewUserRepository(pool)
		st.stations = postgres.NewStationRepository(pool)
		log.Info().Msg("postgres connected")
	default:
		st.users = memory.NewUserRepository()
		st.stations = memory.NewStationRepository()
	}

	switch cfg.Drivers.Session {
	case config.DriverRedis:
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, client) }
		st.sessions = redis.NewSessionStore(client)
		st.throttle = redis.NewLoginThrottle(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	default:
		st.sessions = memory.NewSessionStore()
		st.throttle = memory.NewLoginThrottle()
	}

	switch cfg.Drivers.Audit {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })
		st.checks["mongodb"] = func(ctx context.Context) error { return mongo.Ping(ctx, client) }

		repo := mongo.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("audit indexes: %w", err)
		}
		st.dispatcher = queue.NewDispatcher(0, repo, log)
		st.audit = st.dispatcher
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	case config.DriverMemory:
		st.audit = memory.NewAuditLog()
	}

	ok = true
	return st, nil
}
