package handlers

import (
	"homeserve/middleware"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the global logger tagged with the request route and,
// when authenticated, the account.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger().With(zap.String("route", c.FullPath()))
	if id := middleware.AccountID(c); id != "" {
		logger = logger.With(zap.String("accountId", id))
	}
	return logger
}
