// Package app wires configuration, storage and services into the two HTTP
// engines.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/core/cache"
	"bookit/internal/core/config"
	"bookit/internal/core/database"
	"bookit/internal/repo"
	"bookit/internal/service"
	"bookit/internal/transport/http/handler"
	"bookit/internal/transport/http/router"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Cache  *cache.Cache // nil when redis is disabled
	Tokens *auth.Issuer

	Auth     *service.AuthService
	Users    *service.UserService
	Catalog  *service.CatalogService
	Bookings *service.BookingService
	Reviews  *service.ReviewService

	Modules *router.Registry
}

// Open connects to the database (and redis when enabled), migrates if
// configured, and wires the services.
func Open(cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB), l)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Enabled {
		c = cache.New(cfg.Redis, "bookit")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			// the catalog reads through to the database when redis is down
			l.Warn("redis unreachable, catalog cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}
	return New(cfg, db, c, l), nil
}

// New wires repositories, services and handlers over an open database.
func New(cfg *config.Config, db *gorm.DB, c *cache.Cache, l *zap.Logger) *App {
	users := repo.NewUserRepo(db)
	services := repo.NewServiceRepo(db)
	bookings := repo.NewBookingRepo(db)
	reviews := repo.NewReviewRepo(db)
	tx := repo.NewTxManager(db, cfg.DB.IsolationLevel(), cfg.DB.RetryAttempts, l)
	tokens := auth.NewIssuer(cfg.JWT)

	a := &App{
		Cfg:      cfg,
		Log:      l,
		DB:       db,
		Cache:    c,
		Tokens:   tokens,
		Auth:     service.NewAuthService(users, tokens, l),
		Users:    service.NewUserService(users, l),
		Catalog:  service.NewCatalogService(services, c, cfg.Redis.CatalogTTL(), l),
		Bookings: service.NewBookingService(bookings, services, tx, l),
		Reviews:  service.NewReviewService(reviews, bookings, tx, l),
	}
	a.Modules = router.NewRegistry(
		handler.NewAuthHandler(a.Auth),
		handler.NewUserHandler(a.Users),
		handler.NewCatalogHandler(a.Catalog),
		handler.NewBookingHandler(a.Bookings),
		handler.NewReviewHandler(a.Reviews),
	)
	return a
}

// Ready reports whether the database answers; redis is optional.
func (a *App) Ready(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *App) RouterDeps() router.Deps {
	return router.Deps{Log: a.Log, Auth: a.Tokens, Limits: a.Cfg.Limits, Modules: a.Modules, Ready: a.Ready}
}

// EnsureAdmin creates or promotes the configured bootstrap admin. It is a
// no-op when no admin email is configured.
func (a *App) EnsureAdmin(ctx context.Context) error {
	b := a.Cfg.Bootstrap
	if b.AdminEmail == "" {
		return nil
	}
	u, err := a.Auth.EnsureAdmin(ctx, b.AdminEmail, b.AdminPassword, b.AdminName)
	if err != nil {
		return err
	}
	a.Log.Info("bootstrap admin ready", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	return nil
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Serve runs srv until SIGINT/SIGTERM and then shuts it down gracefully.
func Serve(srv *http.Server, l *zap.Logger, name string) error {
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	l.Info(name+" started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-errc:
		return fmt.Errorf("%s: %w", name, err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	l.Info(name + " stopped gracefully")
	return nil
}
