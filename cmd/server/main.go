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

	"river-transit/ticketdesk/internal/api"
	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/config"
	"river-transit/ticketdesk/internal/db"
	"river-transit/ticketdesk/internal/jobs"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/metrics"
	"river-transit/ticketdesk/internal/routes"
	"river-transit/ticketdesk/internal/workers"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Ticket desk starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx
	if err := db.InitPostgres(cfg.PostgresDSN()); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	gdb, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureAPIKeysTable(ctx, db.DB); err != nil {
		logging.Fatal("Failed to prepare api_keys", "error", err.Error())
	}

	// Redis backs the cache and the departure locks when configured, so
	// several instances serialize on the same keys.
	var (
		cache  common.CacheInterface
		locker locks.Locker
		rdb    *redis.Client
		events *common.RedisEventStream
	)
	if cfg.RedisAddr != "" {
		rdb, err = common.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logging.Fatal("Failed to connect to Redis", "error", err.Error(), "addr", cfg.RedisAddr)
		}
		cache = common.NewRedisCacheService(rdb)
		locker = locks.NewRedisLocker(rdb, cfg.LockTTL)
		events = common.NewRedisEventStream(rdb, common.SaleEventsStream, cfg.EventStreamMaxLen)
		logging.Info("Using Redis cache, locks and sale event stream", "addr", cfg.RedisAddr)
	} else {
		cache = common.NewCacheService(600, 900)
		locker = locks.NewLocalLocker()
		logging.Warn("REDIS_ADDR not set, using in-process cache and locks; run a single instance")
	}
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(gdb, db.DB, cache, locker, metricsReg, api.Options{
		JWTSecret:               cfg.JWTSecret,
		BlockUnavailableVessels: cfg.BlockUnavailableVessels,
		Events:                  events,
	})
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	deps.Redis = rdb
	deps.Jobs = jobs.InitializeJobs(ctx, gdb, locker, metricsReg, cfg.ReconcileInterval)
	workers.InitWorkers(ctx, deps.Services.Catalog, cfg.CacheWarmInterval)

	router := routes.RegisterRoutes(deps, routes.Options{
		UpSince:        time.Now(),
		DB:             db.DB,
		Gatherer:       prometheus.DefaultGatherer,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitPerSecond,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
