package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookit/internal/app"
	"bookit/internal/core/config"
	"bookit/internal/core/logger"
	"bookit/internal/core/server"
	"bookit/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.New(logger.FromConfig(cfg.Log))
	defer cleanup()

	a, err := app.Open(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = a.EnsureAdmin(ctx)
	cancel()
	if err != nil {
		log.Fatal("bootstrap admin failed", zap.Error(err))
	}

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, router.NewAdminEngine(a.RouterDeps()), 5*time.Second, 10*time.Second, 60*time.Second, log)

	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("admin_v1", "http://"+addr+"/admin/v1"),
	)

	if err := app.Serve(srv, log, "admin api"); err != nil {
		log.Error("admin api exited", zap.Error(err))
	}
}
