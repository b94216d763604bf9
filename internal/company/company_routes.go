package company

import (
	"go-shiftly/internal/middleware"
	"go-shiftly/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("/me", rbac.Authorize(enforcer, "company", "read"), handler.GetMine)
	}
}
