package rbac

import (
	"go-shiftly/internal/shared/apperror"
	"go-shiftly/internal/shared/response"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// Authorize gates a route on (role, resource, action). Services still do the
// ownership checks; this only blocks requests a role can never make.
func Authorize(e *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFor(c.GetBool("is_manager"))

		ok, err := e.Enforce(role, resource, action)
		if err != nil || !ok {
			forbidden := apperror.ErrForbidden
			response.Error(c, forbidden.HTTPStatus, forbidden.Code, forbidden.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
