package shift

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
	shifts := r.Group("/shifts")
	shifts.Use(middleware.AuthMiddleware())
	{
		shifts.GET("", rbac.Authorize(enforcer, "shift", "read"), handler.GetAll)
		shifts.GET("/:id", rbac.Authorize(enforcer, "shift", "read"), handler.GetById)
		shifts.POST("", rbac.Authorize(enforcer, "shift", "create"), middleware.Idempotency(redisClient), handler.Create)
		shifts.PUT("/:id", rbac.Authorize(enforcer, "shift", "update"), handler.Update)
		shifts.DELETE("/:id", rbac.Authorize(enforcer, "shift", "delete"), handler.Delete)
		shifts.POST("/publish", rbac.Authorize(enforcer, "shift", "publish"), middleware.Idempotency(redisClient), handler.Publish)
	}
}
