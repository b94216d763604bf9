package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyCacheTTL = 6 * time.Hour
	idempotencyLockTTL  = 30 * time.Second
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a POST that repeats an
// Idempotency-Key, and rejects a duplicate that arrives while the first
// attempt is still in flight. Keys are scoped per route and caller so two
// users can reuse the same key without colliding.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), key)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(val, &cached) == nil {
				c.Header("Idempotent-Replay", "true")
				c.Data(cached.Status, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		// The lock expires on its own so a crashed request cannot wedge
		// the key.
		fresh, _ := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "a request with this idempotency key is still in flight",
			})
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		defer rdb.Del(ctx, lockKey)

		// Only successful outcomes replay; a failed attempt may be retried
		// with the same key.
		status := writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		payload, err := json.Marshal(cachedResponse{Status: status, Body: writer.buf.Bytes()})
		if err != nil {
			return
		}
		rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL)
	}
}
