package middleware

import (
	"crypto/subtle"
	"net/http"

	"homeserve/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthAdminMiddleware guards admin routes with a static bearer token.
// An empty token disables the admin API.
func JWTAuthAdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			utils.JSONError(c, http.StatusServiceUnavailable, "Admin API is disabled", "admin_disabled")
			return
		}
		tokenString := bearerToken(c)
		if tokenString == "" {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}
		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) != 1 {
			unauthorized(c, "Unauthorized admin access")
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
