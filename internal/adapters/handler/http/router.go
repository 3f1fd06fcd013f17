package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-tracker/internal/metrics"
)

type RouterDependencies struct {
	HabitHandler  *HabitHandler
	ReportHandler *ReportHandler
	// Notifications serves the WebSocket upgrade on /ws.
	Notifications http.Handler
	// DB and Redis are nil when the service runs on in-memory storage
	// or without a cache.
	DB         *sqlx.DB
	Redis      *redis.Client
	StartTime  time.Time
	Logger     *zap.Logger
	RateLimit  int
	RateWindow time.Duration
}

var endpoints = []string{
	"POST /api/v1/habits",
	"GET /api/v1/habits?completed=true|false",
	"GET /api/v1/habits/:id",
	"PUT /api/v1/habits/:id",
	"GET /api/v1/habits/:id/progress?from=&to=",
	"GET /api/v1/habits/report?date=",
	"GET /api/v1/reports",
	"GET /api/v1/reports/:date",
	"GET /ws",
	"GET /health",
	"GET /metrics",
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())
	router.Use(metrics.Middleware())

	if deps.RateLimit > 0 {
		if deps.Redis != nil {
			router.Use(middleware.RedisRateLimiter(deps.Redis, deps.RateLimit, deps.RateWindow, logger))
		} else {
			router.Use(middleware.NewLocalRateLimiter(deps.RateLimit, deps.RateWindow, logger).Handler())
		}
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Welcome to the Kanso habit tracker API",
			"endpoints": endpoints,
		})
	})

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		statusCode := http.StatusOK

		dbStatus := "in-memory"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		status := "ok"
		if statusCode != http.StatusOK {
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if deps.Notifications != nil {
		router.GET("/ws", gin.WrapH(deps.Notifications))
	}

	apiV1 := router.Group("/api/v1")
	deps.ReportHandler.RegisterRoutes(apiV1)
	deps.HabitHandler.RegisterRoutes(apiV1)

	return router
}
