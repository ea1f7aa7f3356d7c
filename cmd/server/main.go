package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playmatatu/billiards/internal/api"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/database"
	"github.com/playmatatu/billiards/internal/migrations"
	"github.com/playmatatu/billiards/internal/redis"
	"github.com/playmatatu/billiards/internal/tables"
	"github.com/playmatatu/billiards/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database is optional: without it tables run but keep no history
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Println("[MIGRATE] Running DB migrations on startup...")
			if err := migrations.Run(cfg.DatabaseURL, "migrations"); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("[DB] Connected")
	} else {
		log.Println("[DB] DATABASE_URL not set; shot history disabled")
	}

	// Redis is optional: without it there are no cached snapshots or events
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[REDIS] Connected")
	} else {
		log.Println("[REDIS] REDIS_URL not set; snapshots and events disabled")
	}

	hub := ws.NewHub()
	go hub.Run()
	ws.StartEventSubscriber(ctx, rdb, hub)

	manager := tables.NewManager(ctx,
		tables.NewStore(db),
		tables.NewCache(rdb, time.Duration(cfg.SnapshotTTLMinutes)*time.Minute),
		hub,
		tables.Options{
			MaxTables:   cfg.MaxTables,
			IdleTimeout: time.Duration(cfg.TableIdleMinutes) * time.Minute,
		},
	)
	go manager.StartIdleReaper(ctx, 30*time.Second)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, rdb, manager, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting billiards server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	manager.Shutdown()
}
