package middleware

import (
	"github.com/gin-gonic/gin"
)

// getClientIP returns the caller address. Forwarding headers count only when
// the socket peer is one of the engine's trusted proxies.
func getClientIP(c *gin.Context) string {
	return c.ClientIP()
}
