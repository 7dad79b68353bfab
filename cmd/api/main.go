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

	"petmatch/internal/config"
	"petmatch/internal/db"
	apihttp "petmatch/internal/http"
	"petmatch/internal/metrics"
	"petmatch/internal/repository"
	"petmatch/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	health := apihttp.NewHealthHandler(logger)

	var pets repository.PetRepository
	switch cfg.DBDriver {
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err))
		}
		defer conn.Close()
		pets = repository.NewSqlitePetRepository(conn)
		health.With("database", apihttp.HealthCheckFunc(conn.PingContext))
	default:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		pets = repository.NewPgPetRepository(pool)
		health.With("database", apihttp.HealthCheckFunc(func(ctx context.Context) error {
			return db.Ping(ctx, pool)
		}))
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, pool cache will fail open", zap.Error(err))
		}
		cancel()
		health.With("redis", apihttp.HealthCheckFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
	}
	pets = repository.NewCachedPetRepository(pets, redisClient, cfg.PoolCacheTTL(), logger)
	rateLimiter := service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute, logger)

	m := metrics.NewMetrics()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal("register metrics", zap.Error(err))
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL())
	if !jwtSvc.Enabled() {
		logger.Warn("jwt secret not configured, /pets routes are public")
	}

	similarSvc := service.NewSimilarPetService(logger, pets, service.DefaultSimilarityScorer, m)
	petHandler := apihttp.NewPetHandler(logger, similarSvc, cfg.RankTimeout())
	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:      logger,
		Pets:        petHandler,
		Health:      health,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		JWT:         jwtSvc,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("pool_cache", redisClient != nil && cfg.PoolCacheTTL() > 0),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
