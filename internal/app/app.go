// Package app arma el servicio completo a partir de la configuración:
// store, cache, rate limiter, codec JWT, cliente GitHub, métricas y router.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/blogweb/internal/bootstrap"
	"github.com/dropDatabas3/blogweb/internal/cache"
	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/http/controllers"
	"github.com/dropDatabas3/blogweb/internal/http/router"
	"github.com/dropDatabas3/blogweb/internal/http/server"
	"github.com/dropDatabas3/blogweb/internal/http/services"
	authsvc "github.com/dropDatabas3/blogweb/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/blogweb/internal/http/services/health"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/oauth/github"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/dropDatabas3/blogweb/internal/rate"
	"github.com/dropDatabas3/blogweb/internal/security/password"
	"github.com/dropDatabas3/blogweb/internal/store"
	"github.com/dropDatabas3/blogweb/internal/store/pg"
	migrations "github.com/dropDatabas3/blogweb/migrations/postgres"
	"github.com/redis/go-redis/v9"
)

// App es el servicio ya cableado.
type App struct {
	Config  *config.Config
	Stores  *store.Stores
	Cache   cache.Client
	Metrics *metrics.Metrics
	Server  *server.Server

	closers []func()
}

// Build abre las dependencias en orden. Si algo falla cierra lo ya abierto.
func Build(ctx context.Context, cfg *config.Config) (a *App, err error) {
	log := logger.From(ctx).With(logger.Component("app"))
	a = &App{Config: cfg, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	codec, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL())
	if err != nil {
		return a, err
	}

	if a.Stores, err = OpenStore(ctx, cfg); err != nil {
		return a, err
	}
	a.closers = append(a.closers, a.Stores.Close)
	if pgs := a.Stores.PG; pgs != nil && pgs.Pool() != nil {
		pool := pgs.Pool()
		if err := a.Metrics.RegisterPool(func() metrics.PoolStat {
			st := pool.Stat()
			return metrics.PoolStat{Acquired: st.AcquiredConns(), Idle: st.IdleConns(), Total: st.TotalConns()}
		}); err != nil {
			log.Warn("pool metrics not registered", logger.Err(err))
		}
	}

	if cfg.Flags.Migrate {
		if err := Migrate(ctx, a.Stores); err != nil {
			return a, err
		}
	}
	if cfg.Flags.Seed {
		if err := Seed(ctx, cfg, a.Stores); err != nil {
			return a, err
		}
	}

	// Un único cliente Redis sirve al cache de state OAuth2 y al rate limiter.
	var rdb *redis.Client
	if cfg.Cache.Kind == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return a, fmt.Errorf("redis ping: %w", err)
		}
		a.Cache = cache.NewRedisFromClient(rdb, cfg.Cache.Redis.Prefix, config.MustDuration(cfg.Cache.Memory.DefaultTTL, 10*time.Minute))
	} else {
		a.Cache = cache.NewMemory("", config.MustDuration(cfg.Cache.Memory.DefaultTTL, 10*time.Minute))
	}
	a.closers = append(a.closers, func() { _ = a.Cache.Close() })

	var gh authsvc.GitHubClient
	if ghc := cfg.OAuth.GitHub; ghc.ClientID != "" && ghc.ClientSecret != "" {
		client := github.New(ghc.ClientID, ghc.ClientSecret, ghc.RedirectURL, ghc.Scopes)
		client.FetchPrivateEmail = ghc.FetchPrivateEmail
		gh = client
	} else {
		log.Warn("github oauth2 disabled: missing client id/secret")
	}

	svcs := services.New(services.Deps{
		DAL:         a.Stores.DAL,
		Codec:       codec,
		Hasher:      password.Default,
		Cache:       a.Cache,
		GitHub:      gh,
		Metrics:     a.Metrics,
		StateTTL:    config.MustDuration(cfg.OAuth.StateTTL, 10*time.Minute),
		Admin:       authsvc.AdminIdentity{Username: cfg.DefaultAdmin.Username, Email: cfg.DefaultAdmin.Email},
		AdminRole:   cfg.Auth.AdminRole,
		DefaultRole: cfg.Auth.DefaultRole,
		HealthChecks: map[string]healthsvc.Checker{
			"store": a.Stores.DAL.Ping,
			"cache": a.Cache.Ping,
		},
	})

	rd := router.Deps{
		Controllers: controllers.New(svcs),
		Tokens:      codec,
		Metrics:     a.Metrics,
		AdminRole:   cfg.Auth.AdminRole,
		Dev:         !strings.EqualFold(cfg.App.Env, "prod"),
	}
	if cfg.Rate.Enabled {
		window := config.MustDuration(cfg.Rate.Login.Window, time.Minute)
		if rdb != nil {
			rd.LoginLimiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, window)
		} else {
			rd.LoginLimit, rd.LoginWindow = cfg.Rate.Login.Limit, window
		}
	}

	a.Server = server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  config.MustDuration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: config.MustDuration(cfg.Server.WriteTimeout, 30*time.Second),
	}, router.New(rd))

	log.Info("app ready",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("oauth2", gh != nil),
		logger.Bool("rate_limit", cfg.Rate.Enabled))
	return a, nil
}

// Run sirve HTTP hasta que ctx se cancela.
func (a *App) Run(ctx context.Context) error { return a.Server.Run(ctx) }

// Close libera en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// OpenStore abre el driver configurado.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Stores, error) {
	pc := cfg.Storage.Postgres
	return store.Open(ctx, store.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		Postgres: pg.PoolConfig{
			MaxOpenConns:    pc.MaxOpenConns,
			MaxIdleConns:    pc.MaxIdleConns,
			ConnMaxLifetime: config.MustDuration(pc.ConnMaxLifetime, 0),
		},
	})
}

// Migrate aplica las migraciones embebidas. Con el driver memory no hace nada.
func Migrate(ctx context.Context, st *store.Stores) error {
	if st.PG == nil {
		return nil
	}
	res, err := pg.NewMigrator(migrations.PostgresFS, migrations.PostgresDir).Run(ctx, st.PG)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.From(ctx).Info("migrations applied", logger.Component("app"),
		logger.Int("applied", len(res.Applied)), logger.Int("skipped", len(res.Skipped)))
	return nil
}

// Seed corre el seed idempotente con el admin de la configuración.
func Seed(ctx context.Context, cfg *config.Config, st *store.Stores) error {
	_, err := bootstrap.Seed(ctx, bootstrap.SeedConfig{
		DAL: st.DAL,
		Admin: bootstrap.AdminConfig{
			Username: cfg.DefaultAdmin.Username,
			Password: cfg.DefaultAdmin.Password,
			Email:    cfg.DefaultAdmin.Email,
			Role:     cfg.Auth.AdminRole,
		},
	})
	return err
}
