package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceralandia/api/internal/config"
	"github.com/ceralandia/api/internal/database"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/router"
	"github.com/ceralandia/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	if cfg.AdminPasswordHash == "" {
		log.Println("WARNING: ADMIN_PASSWORD_HASH is empty, admin login is disabled. Generate one with: seed -hash PASSWORD")
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Migrations failed: %v", err)
		}
		log.Println("Migrations applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}

	confirmations, closeStore := newConfirmationStore(ctx, cfg)
	defer closeStore()

	// The hub outlives the signal so handlers draining during Shutdown can
	// still publish.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub()
	go hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, database.New(pool), confirmations, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: server shutdown: %v", err)
	}
	stopHub()
	log.Println("Server stopped")
}

// newConfirmationStore returns the Redis store when REDIS_ADDR is set, so
// several server instances share pending confirmations, and an in-process
// store otherwise.
func newConfirmationStore(ctx context.Context, cfg *config.Config) (pending.Store, func()) {
	if cfg.RedisAddr == "" {
		log.Println("Pending confirmations kept in memory")
		return pending.NewMemoryStore(cfg.ConfirmationTTL), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Unable to connect to redis: %v", err)
	}
	log.Printf("Pending confirmations kept in redis at %s", cfg.RedisAddr)
	return pending.NewRedisStore(client, cfg.ConfirmationTTL), func() {
		if err := client.Close(); err != nil {
			log.Printf("ERROR: close redis: %v", err)
		}
	}
}
