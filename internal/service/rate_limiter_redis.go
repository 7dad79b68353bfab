package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ventana fija: el primer INCR de cada ventana fija el TTL.
const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

const rateLimitTimeout = 500 * time.Millisecond

// RateLimiter decide si un caller puede hacer otro request en la ventana actual.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
	logger *zap.Logger
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisRateLimiter devuelve nil si no hay cliente o max <= 0 (sin limite).
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) RateLimiter {
	if client == nil || max <= 0 {
		return nil
	}
	return newRedisRateLimiter(client, window, max, logger)
}

func newRedisRateLimiter(client redisEvaler, window time.Duration, max int, logger *zap.Logger) *redisRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "pets:rl:",
		logger: logger,
	}
}

// Allow falla abierto: si Redis no responde, el request pasa.
func (l *redisRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, rateLimitTimeout)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.String("key", redisKey), zap.Error(err))
		return true
	}
	return count <= l.max
}
