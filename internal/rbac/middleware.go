package rbac

import (
	"net/http"

	"lawfirm-cms/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequirePermission allows access if the caller holds capability.
// Rules:
// - admin bypasses all checks
// - editors need the capability in their token's permission list
// - must run after auth.RequireSession
func RequirePermission(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.IdentityFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": auth.MsgUnauthenticated})
			return
		}
		if !HasPermission(id, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": auth.MsgPermissionDenied})
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to the bootstrap admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.IdentityFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": auth.MsgUnauthenticated})
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": auth.MsgPermissionDenied})
			return
		}
		c.Next()
	}
}
