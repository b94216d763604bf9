package coverbid

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
	bids := r.Group("/cover-bids")
	bids.Use(middleware.AuthMiddleware())
	{
		bids.GET("", rbac.Authorize(enforcer, "coverbid", "read"), handler.GetAll)
		bids.GET("/:id", rbac.Authorize(enforcer, "coverbid", "read"), handler.GetById)
		bids.POST("", rbac.Authorize(enforcer, "coverbid", "create"), middleware.Idempotency(redisClient), handler.Create)
		bids.POST("/:id/approve", rbac.Authorize(enforcer, "coverbid", "decide"), middleware.Idempotency(redisClient), handler.Approve)
		bids.POST("/:id/reject", rbac.Authorize(enforcer, "coverbid", "decide"), handler.Reject)
	}
}
