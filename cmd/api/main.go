package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/affistack/affistack-api/internal/config"
	"github.com/affistack/affistack-api/internal/logging"
	"github.com/affistack/affistack-api/internal/plan"
	"github.com/affistack/affistack-api/internal/repository/ports"
	"github.com/affistack/affistack-api/internal/repository/postgres"
	"github.com/affistack/affistack-api/internal/repository/redis"
	"github.com/affistack/affistack-api/internal/service"
	transporthttp "github.com/affistack/affistack-api/internal/transport/http"
	"github.com/affistack/affistack-api/internal/util"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			return fmt.Errorf("logstash writer: %w", err)
		}
		defer writer.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, writer))
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var sessions ports.SessionRegistry
	switch cfg.SessionStore {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		sessions = redis.NewSessionRepo(client)
	case "postgres":
		sessions = postgres.NewSessionRepo(db)
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	plans := plan.Default()
	if cfg.PlanTableFile != "" {
		plans, err = plan.LoadFile(cfg.PlanTableFile)
		if err != nil {
			return fmt.Errorf("load plan table: %w", err)
		}
	}

	users := postgres.NewUserRepo(db)
	tokens := util.NewTokenManager(cfg.JWTSecret)
	auth := service.NewAuthService(users, sessions, tokens, cfg.StoreTimeout)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	e.Use(transporthttp.RouteGate(auth, transporthttp.DefaultRouteTable(), cfg.IsProduction()))
	transporthttp.RegisterAuth(e, auth, plans, cfg.IsProduction())

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
