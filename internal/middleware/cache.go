package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

// cachedResponse is what a catalog hit replays.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// bodyRecorder tees the response body into buf, up to limit bytes. Once the
// body outgrows limit the response is marked as not cacheable.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
			w.overflow = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey hashes the request path, and the query unless the strategy is
// "route", under cfg.Prefix. The concrete path is used rather than the route
// template so /movies/1 and /movies/2 never share an entry.
func cacheKey(cfg config.CacheConfig, r *http.Request) string {
	h := sha1.New()
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		h.Write([]byte(r.URL.Path))
	case "method_route_query":
		h.Write([]byte(r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery))
	default:
		h.Write([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	}
	return cfg.Prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// NewRedisCache caches successful catalog answers in Redis for cfg.TTL.
// Only anonymous requests take part, so an answer shaped by a session never
// reaches another user. Answers marked Cache-Control: no-store (degraded
// lists) are served but not stored. Hits carry X-Cache: HIT.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Cacheable(req.Method) || userID(c) != "anon" {
				return next(c)
			}
			key := cacheKey(cfg, req)

			if raw, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil && hit.Status != 0 {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(hit.Status, hit.ContentType, hit.Body)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}

			hdr := c.Response().Header()
			if rec.status != http.StatusOK || rec.overflow || strings.Contains(hdr.Get(echo.HeaderCacheControl), "no-store") {
				return nil
			}
			entry, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: hdr.Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
			})
			if err == nil {
				// The request context may already be cancelled by the client.
				_ = rdb.Set(context.WithoutCancel(req.Context()), key, entry, ttl).Err()
			}
			return nil
		}
	}
}
