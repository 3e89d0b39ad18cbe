package middleware

import (
	"context"
	"net/http"
	"strings"

	"homeserve/services/auth"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware.
const (
	ContextAccountID = "accountID"
	ContextRole      = "role"
	ContextEmail     = "email"
)

// TokenHashLookup returns the token hash stored on an account.
type TokenHashLookup func(ctx context.Context, id string) (string, error)

func unauthorized(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusUnauthorized, message, "unauthorized")
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// JWTAuthMiddleware accepts a bearer token of the given role whose hash
// matches the one stored on the account. Verified hashes are cached.
func JWTAuthMiddleware(role string, lookup TokenHashLookup, cache *auth.TokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}
		if claims.Role != role {
			utils.JSONError(c, http.StatusForbidden, "Token is not valid for this app", "wrong_role")
			return
		}

		ctx := c.Request.Context()
		computed := utils.HashToken(tokenString)
		if cached, ok := cache.Get(ctx, role, claims.Subject); ok {
			if cached != computed {
				unauthorized(c, "Token mismatch")
				return
			}
		} else {
			stored, err := lookup(ctx, claims.Subject)
			if err != nil || stored == "" || stored != computed {
				if err != nil {
					utils.GetLogger().Debug("token lookup failed", zap.String("role", role), zap.Error(err))
				}
				unauthorized(c, "Token mismatch or account not found")
				return
			}
			cache.Set(ctx, role, claims.Subject, computed)
		}

		c.Set(ContextAccountID, claims.Subject)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func JWTAuthUserMiddleware(lookup TokenHashLookup, cache *auth.TokenCache) gin.HandlerFunc {
	return JWTAuthMiddleware(utils.RoleUser, lookup, cache)
}

func JWTAuthWorkerMiddleware(lookup TokenHashLookup, cache *auth.TokenCache) gin.HandlerFunc {
	return JWTAuthMiddleware(utils.RoleWorker, lookup, cache)
}

// AccountID is the authenticated account set by JWTAuthMiddleware.
func AccountID(c *gin.Context) string {
	return c.GetString(ContextAccountID)
}
