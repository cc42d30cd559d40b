package middleware

import (
    "bytes"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// captureWriter tees the response body so a successful reply can be
// stored after it has been sent to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    cw.buf.Write(b)
    return cw.ResponseWriter.Write(b)
}

// CacheGET caches successful JSON responses of a GET route in Redis
// for a short TTL. Availability lookups are read-heavy and tolerate a
// few seconds of staleness, so a hit skips the resolver entirely. With
// no Redis client the middleware is a pass-through.
func CacheGET(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
    if rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return next
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := "cache:" + c.Path() + "?" + c.Request().URL.RawQuery

            ctx := c.Request().Context()
            if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.JSONBlob(http.StatusOK, body)
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
            c.Response().Writer = cw
            if err := next(c); err != nil {
                return err
            }
            if cw.status == http.StatusOK {
                // Best effort; a failed store just means a miss next time.
                _ = rdb.Set(ctx, key, cw.buf.Bytes(), ttl).Err()
            }
            return nil
        }
    }
}
