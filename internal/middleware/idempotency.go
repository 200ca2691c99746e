package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	idempotencyTTL       = 24 * time.Hour
	idempotencyKeyPrefix = "idempotency:booking:"
)

// bookingReplay stores the first response to an idempotency key so a
// retried booking submission is answered without creating a second ticket.
type bookingReplay struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// replayWriter wraps gin.ResponseWriter to capture the response body.
type replayWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *replayWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// BookingIdempotency returns middleware for the booking routes. A POST or
// PUT carrying an Idempotency-Key header is executed once; retries with the
// same key replay the stored response. Redis errors fail open — an
// unguarded retry is preferable to rejecting the booking outright.
func BookingIdempotency(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyKeyPrefix + key

		cached, err := loadReplay(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			c.Next()
			return
		}

		if cached != nil {
			for k, v := range cached.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		w := &replayWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx responses are not stored; the retry should reach the service.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			_ = storeReplay(ctx, redisClient, cacheKey, &bookingReplay{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    replayHeaders(c),
			}, idempotencyTTL)
		}
	}
}

func loadReplay(ctx context.Context, client *redis.Client, key string) (*bookingReplay, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached bookingReplay
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func storeReplay(ctx context.Context, client *redis.Client, key string, replay *bookingReplay, ttl time.Duration) error {
	data, err := json.Marshal(replay)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// replayHeaders picks the headers worth replaying; only Content-Type.
func replayHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
