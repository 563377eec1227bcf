package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, user, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, user, role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func serve(e *echo.Echo, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	g := e.Group("/admin", JWTAuth(secret), RequireRole(session.RoleAdmin))
	g.GET("/whoami", func(c echo.Context) error {
		s, err := session.From(c.Request().Context())
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, s.UserID+"/"+s.Role)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/admin/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/admin/whoami", "Bearer garbage").Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/admin/whoami", bearer(t, "7", session.RoleCustomer)).Code)

	rec := serve(e, http.MethodGet, "/admin/whoami", bearer(t, "7", session.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7/ADMIN", rec.Body.String())
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: time.Hour, KeyStrategy: "user_route", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/booking", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		JWTAuth(secret), NewTokenBucket(cfg, newRedis(t), zap.NewNop()))

	alice := bearer(t, "1", session.RoleCustomer)
	bob := bearer(t, "2", session.RoleCustomer)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/booking", alice).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/booking", alice).Code)
	blocked := serve(e, http.MethodGet, "/booking", alice)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// Buckets are per user.
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/booking", bob).Code)
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(cfg, nil, zap.NewNop()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/x", "").Code)
	}
}

func TestRedisCacheServesHits(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled: true, Methods: []string{http.MethodGet}, TTL: time.Minute,
		KeyStrategy: "route_query", Prefix: "cache",
	}
	calls := 0
	e := echo.New()
	e.GET("/movies/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, NewRedisCache(cfg, newRedis(t)))

	first := serve(e, http.MethodGet, "/movies/1", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(e, http.MethodGet, "/movies/1", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	serve(e, http.MethodGet, "/movies/1?lang=vi", "")
	assert.Equal(t, 2, calls, "query is part of the key")
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(zap.NewNop()))
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })
	assert.Equal(t, http.StatusBadGateway, serve(e, http.MethodGet, "/boom", "").Code)
}
