package user

import (
	"go-shiftly/internal/middleware"
	"go-shiftly/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", rbac.Authorize(enforcer, "user", "read"), handler.List)
		users.PUT("/me/email", rbac.Authorize(enforcer, "user", "update_self"), handler.UpdateEmail)
		users.PUT("/me/password", rbac.Authorize(enforcer, "user", "update_self"), handler.UpdatePassword)
	}
}
