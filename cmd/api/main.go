package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/auth"
	"github.com/ratehub/store-rating-api/internal/config"
	dbpkg "github.com/ratehub/store-rating-api/internal/db"
	"github.com/ratehub/store-rating-api/internal/infra/repository"
	"github.com/ratehub/store-rating-api/internal/logging"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/routes"
	"github.com/ratehub/store-rating-api/internal/store"
)

func main() {

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty)

	// Storage is chosen exactly once: postgres, or the volatile demo
	// store when the database is unreachable and the fallback is allowed.
	var (
		st       store.Store
		recorder audit.Recorder
	)

	gdb, err := dbpkg.Open(cfg)
	switch {
	case err == nil:
		st = repository.NewGormStore(gdb)
		recorder = audit.NewGormRecorder(gdb)
		logger.Info().Msg("connected to postgres")
	case cfg.AllowMemoryFallback:
		mem := repository.NewMemoryStore()
		if err := mem.SeedDemoUsers(); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo users")
		}
		st = mem
		recorder = audit.NewLogRecorder()
		logger.Warn().Err(err).Msg("postgres unreachable, running on the volatile in-memory store")
	default:
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	auditDispatcher := audit.NewDispatcher(recorder)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	loginLimiter := middleware.NewLoginRateLimiter(redisClient, 10, time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, st, issuer, auditDispatcher, loginLimiter)

	logger.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
