package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

// takeToken refills the bucket in KEYS[1] by whole intervals since the last
// refill, then takes one token if there is one.
//
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s
// Returns {allowed 0|1, tokens left, ms until the next refill}.
var takeToken = redis.NewScript(`
local now      = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill   = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

local b = redis.call('HMGET', KEYS[1], 'tokens', 'at')
local tokens = tonumber(b[1]) or capacity
local at = tonumber(b[2]) or now

local steps = math.floor(math.max(0, now - at) / interval)
if steps > 0 then
  tokens = math.min(capacity, tokens + steps * refill)
  at = at + steps * interval
end

local allowed = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, math.max(0, interval - (now - at))}
`)

// rateKey names the bucket of a request. Buckets are per session user by
// default; the strategy can add the client IP and the route.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	strategy := strings.ToLower(cfg.KeyStrategy)
	if strings.Contains(strategy, "ip") {
		parts = append(parts, c.RealIP())
	}
	parts = append(parts, userID(c))
	if strings.Contains(strategy, "route") {
		parts = append(parts, c.Request().Method+" "+c.Path())
	}
	return strings.Join(parts, ":")
}

// NewTokenBucket rate limits the booking endpoints with a Redis token bucket
// of cfg.Capacity tokens, refilled by cfg.RefillTokens every
// cfg.RefillInterval. It runs after authentication so buckets follow the
// session user. A Redis failure lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	interval := cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	ttl := int64(cfg.TTL / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			res, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens, interval.Milliseconds(), ttl,
			).Int64Slice()
			if err != nil || len(res) != 3 {
				log.Warn("ratelimit: bucket unavailable, allowing request", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if res[0] == 1 {
				return next(c)
			}

			retry := (res[2] + 999) / 1000
			h.Set("Retry-After", strconv.FormatInt(retry, 10))
			if cfg.Debug {
				log.Info("ratelimit: blocked", zap.String("key", key), zap.Int64("retry_after_s", retry))
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many requests",
				"retry_after": retry,
			})
		}
	}
}
