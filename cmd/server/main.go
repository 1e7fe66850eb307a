// Package main is the entry point for the PayQI API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"github.com/sohamgherwada/PayQI/internal/config"
	"github.com/sohamgherwada/PayQI/internal/logger"
	"github.com/sohamgherwada/PayQI/internal/repositories"
	"github.com/sohamgherwada/PayQI/internal/repositories/cache"
	"github.com/sohamgherwada/PayQI/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	if err := logger.Init(&logger.LogConfig{
		Level:       config.GetEnv("LOG_LEVEL", "info"),
		Environment: config.GetEnv("ENV", "development"),
		ServiceName: "payqi-api",
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zlog := logger.Get()
	defer func() { _ = zlog.Sync() }()

	db, err := repositories.InitDB()
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("failed to get database instance", zap.Error(err))
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	if err := sqlDB.Ping(); err != nil {
		zlog.Fatal("failed to ping database", zap.Error(err))
	}
	zlog.Info("connected to database")

	cacheStore := initCache(zlog)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, db, cacheStore)

	zlog.Fatal("server stopped", zap.Error(app.Listen(":"+config.GetEnv("PORT", "8000"))))
}

// initCache connects to Redis when one is configured and reachable, and
// falls back to the in-process TTL cache otherwise. Rate staleness is the
// only thing at stake, so a missing Redis is a warning, not an error.
func initCache(zlog *zap.Logger) cache.Cache {
	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", ""),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	if redisCfg.Host == "" {
		zlog.Info("no Redis configured, using in-memory rate cache")
		return cache.NewMemoryCache()
	}

	redisCache := cache.NewRedisCache(cache.NewRedisClient(redisCfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.HealthCheck(ctx); err != nil {
		zlog.Warn("Redis unreachable, using in-memory rate cache", zap.Error(err))
		return cache.NewMemoryCache()
	}

	zlog.Info("connected to Redis")
	return redisCache
}
