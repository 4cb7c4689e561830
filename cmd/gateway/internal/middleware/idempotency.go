package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	DefaultTTL           = 24 * time.Hour
)

// Idempotency replays the stored response for a repeated Idempotency-Key
// so that a retried POST never charges twice. Redis being unavailable
// degrades to processing the request normally.
func Idempotency(client *redis.Client, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx *gin.Context) {
		key := ctx.GetHeader(HeaderIdempotencyKey)
		if client == nil || key == "" {
			ctx.Next()
			return
		}

		redisKey := "idempotency:" + key
		cached, err := client.Get(ctx, redisKey).Bytes()
		switch {
		case err == nil:
			ctx.Data(http.StatusOK, "application/json", cached)
			ctx.Abort()
			return
		case !errors.Is(err, redis.Nil):
			logger.Warn("idempotency store unavailable", zap.Error(err))
			ctx.Next()
			return
		}

		capture := &captureWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = capture
		ctx.Next()

		if capture.Status() < http.StatusMultipleChoices {
			if err := client.Set(ctx, redisKey, capture.body.Bytes(), ttl).Err(); err != nil {
				logger.Warn("failed to store idempotent response", zap.Error(err))
			}
		}
	}
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (n int, err error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (n int, err error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
