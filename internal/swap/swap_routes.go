package swap

import (
	"go-shiftly/internal/middleware"
	"go-shiftly/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	redisClient *redis.Client,
) {
	swaps := r.Group("/swap-requests")
	swaps.Use(middleware.AuthMiddleware())
	{
		swaps.GET("", rbac.Authorize(enforcer, "swap", "read"), handler.GetAll)
		swaps.GET("/:id", rbac.Authorize(enforcer, "swap", "read"), handler.GetById)
		swaps.POST("", rbac.Authorize(enforcer, "swap", "create"), middleware.Idempotency(redisClient), handler.Create)
		swaps.POST("/:id/agree", rbac.Authorize(enforcer, "swap", "respond"), middleware.Idempotency(redisClient), handler.Agree)
		swaps.POST("/:id/decline", rbac.Authorize(enforcer, "swap", "respond"), handler.Decline)
		swaps.POST("/:id/approve", rbac.Authorize(enforcer, "swap", "decide"), middleware.Idempotency(redisClient), handler.Approve)
		swaps.POST("/:id/reject", rbac.Authorize(enforcer, "swap", "decide"), handler.Reject)
	}
}
