package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter table; past it, idle entries are swept.
const maxTrackedClients = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is the in-process counterpart of RedisRateLimiter, used
// when no Redis is configured. Each client IP gets a token bucket that
// refills limit tokens per window with a burst of limit.
type LocalRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   int
	window  time.Duration
	every   rate.Limit
	logger  *zap.Logger
	now     func() time.Time
}

func NewLocalRateLimiter(limit int, window time.Duration, logger *zap.Logger) *LocalRateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &LocalRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		window:  window,
		every:   rate.Every(window / time.Duration(limit)),
		logger:  logger,
		now:     time.Now,
	}
}

func (l *LocalRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) >= maxTrackedClients {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > l.window {
				delete(l.clients, k)
			}
		}
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.every, l.limit)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (l *LocalRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())
		now := l.now()

		allowed := limiter.AllowN(now, 1)
		remaining := int64(math.Floor(limiter.TokensAt(now)))
		setRateHeaders(c, l.limit, remaining, now.Add(l.window))

		if !allowed {
			l.logger.Info("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retry_in_s": int(math.Ceil((l.window / time.Duration(l.limit)).Seconds())),
			})
			return
		}

		c.Next()
	}
}
