package middlewares

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// cachedResponse is what ResponseCache keeps in redis for one GET.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter copies the body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(prefix string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache serves repeated GETs under prefix from redis for ttl.
// With a nil client it is a passthrough.
func ResponseCache(rdb *redis.Client, prefix string, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(prefix, c)

		if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(bs, &cached) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Printf("Error reading response cache: %v", err)
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
			utils.ErrorLogger.Printf("Error writing response cache: %v", err)
		}
	}
}

// CacheBuster drops every cached response under the given prefixes after a
// successful write request.
func CacheBuster(rdb *redis.Client, prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if rdb == nil || c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}
		ctx := context.WithoutCancel(c.Request.Context())
		for _, prefix := range prefixes {
			iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
			for iter.Next(ctx) {
				rdb.Del(ctx, iter.Val())
			}
			if err := iter.Err(); err != nil {
				utils.ErrorLogger.Printf("Error invalidating cache %s: %v", prefix, err)
			}
		}
	}
}
