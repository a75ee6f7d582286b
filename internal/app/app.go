// Package app wires the roster server runtime: config, logging, stores,
// HTTP routes, and metrics.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"roster/internal/auth"
	authapi "roster/internal/auth/api"
	"roster/internal/auth/session"
	"roster/internal/directory"
	"roster/internal/identity"
	"roster/internal/metrics"
	"roster/internal/migrations"
	"roster/internal/security/credential"
)

// App is the roster server runtime.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool
	rdb       *redis.Client

	prom        *prometheus.Registry
	httpMetrics *metrics.HTTP

	auth *authapi.Handler
	dir  *directory.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	ctx := context.Background()

	codec, err := credential.FromEnv()
	if err != nil {
		return nil, err
	}
	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	authCfg := authapi.LoadConfigFromEnv()

	var (
		dbPool     *pgxpool.Pool
		dbEnabled  bool
		principals identity.Store
		sessStore  session.Store
	)

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		principals = identity.NewMemoryStore()
		sessStore = session.NewMemoryStore()
	} else {
		if cfg.MigrateOnStart {
			if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}

		dbPool, err = NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dbEnabled = true
		log.Info("db.enabled.postgres_store")

		pgPrincipals, err := identity.NewPostgresStore(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, err
		}
		principals = pgPrincipals

		pgSessions, err := session.NewPostgresStore(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, err
		}
		sessStore = pgSessions
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, err
		}

		redisSessions, err := session.NewRedisStore(rdb)
		if err != nil {
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, err
		}
		sessStore = redisSessions
		log.Info("sessions.redis_store", "addr", cfg.RedisAddr)
	}

	sessions := session.NewManager(sessCfg, sessStore, principals)
	guard := auth.NewGuard(sessions)

	local, err := auth.NewLocal(codec, principals)
	if err != nil {
		return nil, err
	}
	strategies := auth.NewRegistry()
	if err := strategies.Register(local); err != nil {
		return nil, err
	}

	prom := prometheus.NewRegistry()
	prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuth(prom)
	httpMetrics := metrics.NewHTTP(prom)

	authHandler, err := authapi.NewHandler(log, authCfg, codec, principals, strategies, sessions, guard, authMetrics)
	if err != nil {
		return nil, err
	}
	dirHandler := directory.NewHandler(log, codec, principals, authCfg.MaxBodyBytes)

	if !dbEnabled && cfg.SeedSampleUsers {
		if err := seedSampleUsers(ctx, principals, codec); err != nil {
			return nil, err
		}
		log.Info("seed.sample_users")
	}

	return &App{
		cfg:         cfg,
		log:         log,
		dbPool:      dbPool,
		dbEnabled:   dbEnabled,
		rdb:         rdb,
		prom:        prom,
		httpMetrics: httpMetrics,
		auth:        authHandler,
		dir:         dirHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth, a.dir, a.prom)

	handler := WithSecurityHeaders(WithRequestLogging(mux, a.log, a.httpMetrics))

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.close()
	a.log.Info("server.stopped")
	return nil
}

func (a *App) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Error("redis.close.fail", "err", err)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
}

// seedSampleUsers inserts the demo accounts used when running without a
// database. Both log in with the password "abc123".
func seedSampleUsers(ctx context.Context, principals identity.Store, codec credential.Config) error {
	users := []struct {
		name  string
		email string
	}{
		{name: "Peter", email: "peter@example.com"},
		{name: "Chris", email: "chris@example.com"},
	}

	now := time.Now().UTC()
	for _, u := range users {
		enc, err := codec.Derive("abc123")
		if err != nil {
			return err
		}
		id, err := identity.NewID(now)
		if err != nil {
			return err
		}
		p := identity.Principal{
			ID:          id,
			Email:       u.email,
			EmailNorm:   identity.NormalizeEmail(u.email),
			DisplayName: u.name,
			Credential:  enc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := principals.Insert(ctx, p); err != nil && !identity.IsConflict(err) {
			return err
		}
	}
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
