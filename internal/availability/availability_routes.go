package availability

import (
	"go-shiftly/internal/middleware"
	"go-shiftly/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	rules := r.Group("/unavailability-rules")
	rules.Use(middleware.AuthMiddleware())
	{
		rules.GET("", rbac.Authorize(enforcer, "availability", "read"), handler.GetAll)
		rules.GET("/:id", rbac.Authorize(enforcer, "availability", "read"), handler.GetById)
		rules.POST("", rbac.Authorize(enforcer, "availability", "write"), handler.Create)
		rules.PUT("/:id", rbac.Authorize(enforcer, "availability", "write"), handler.Update)
		rules.DELETE("/:id", rbac.Authorize(enforcer, "availability", "write"), handler.Delete)
	}
}
