package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	adapthttp "storefront/internal/adapter/http"
	"storefront/internal/adapter/memory"
	"storefront/internal/adapter/mysql"
	"storefront/internal/adapter/postgres"
	"storefront/internal/adapter/redis"
	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/seed"
	"storefront/internal/session"
)

const sessionSweepInterval = 10 * time.Minute

// repository is what every database backend provides.
type repository interface {
	domain.UserRepository
	domain.InventoryRepository
	domain.CartRepository
	Ping(ctx context.Context) error
}

// backend bundles an opened database with its SQL session store, if any.
type backend struct {
	repo     repository
	sessions session.Store
	close    func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	zap.ReplaceGlobals(zl)

	os.Exit(exitCode(zl, run(cfg, zl)))
}

// exitCode logs a fatal run error and flushes the logger before main exits,
// since os.Exit skips deferred calls.
func exitCode(zl *zap.Logger, err error) int {
	code := 0
	if err != nil {
		zl.Error("storefront stopped", zap.Error(err))
		code = 1
	}
	_ = zl.Sync()
	return code
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()
	zl.Info("database ready", zap.String("driver", cfg.DBDriver))

	if cfg.InventorySeedFile != "" {
		items, err := seed.Load(cfg.InventorySeedFile)
		if err != nil {
			return err
		}
		n, err := seed.Apply(ctx, be.repo, items)
		if err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
		zl.Info("inventory seeded", zap.Int("items", n), zap.String("file", cfg.InventorySeedFile))
	}

	sessStore, closeSessions, err := openSessionStore(ctx, cfg, be)
	if err != nil {
		return err
	}
	defer func() { _ = closeSessions() }()
	if sw, ok := sessStore.(session.Sweeper); ok {
		go session.Sweep(ctx, sw, sessionSweepInterval)
	}

	var sso *adapthttp.SSO
	if cfg.OIDC.Enabled() {
		if sso, err = adapthttp.NewSSO(ctx, cfg.OIDC); err != nil {
			return err
		}
		zl.Info("sso enabled", zap.String("issuer", cfg.OIDC.IssuerURL))
	}

	sessions := session.NewManager(sessStore, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionCookieSecure,
	})
	srv := adapthttp.New(
		app.NewAccountService(be.repo),
		app.NewCartService(be.repo, be.repo),
		sessions,
		be.repo,
		sso,
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		if cfg.MigrateOnStart {
			if _, err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &backend{repo: db, sessions: postgres.NewSessionStore(db), close: db.Close}, nil
	case config.DriverMySQL:
		db, err := mysql.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("mysql open: %w", err)
		}
		if cfg.MigrateOnStart {
			if _, err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &backend{repo: db, sessions: mysql.NewSessionStore(db), close: db.Close}, nil
	case config.DriverMemory:
		return &backend{repo: memory.New(), close: func() error { return nil }}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, be *backend) (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return memory.NewSessionStore(), noop, nil
	case config.SessionStoreDatabase:
		if be.sessions == nil {
			return nil, nil, fmt.Errorf("SESSION_STORE=database is not supported by DB_DRIVER=%s", cfg.DBDriver)
		}
		return be.sessions, noop, nil
	case config.SessionStoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redis.NewSessionStore(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}
}
