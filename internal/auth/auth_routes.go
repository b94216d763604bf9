package auth

import (
	"go-shiftly/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Register)
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
