package middleware

import (
	"go-shiftly/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying the request id and
// caller id, so services can log through contextutil without knowing about
// gin. It runs after RequestID and AuthMiddleware, which populate both.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqLogger := logger.With(
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("user_id", c.GetString("user_id")),
		)

		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))
		c.Next()
	}
}
