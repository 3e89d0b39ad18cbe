package handlers

import (
	"net/http"

	"homeserve/services/user"
	"homeserve/services/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Users   user.UserService
	Workers worker.WorkerService
}

func NewAdminHandler(us user.UserService, ws worker.WorkerService) *AdminHandler {
	return &AdminHandler{Users: us, Workers: ws}
}

// GetAllUsersHandler returns all users (with sensitive fields excluded).
func (ah *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := ah.Users.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetAllWorkersHandler returns all workers, vetted or not.
func (ah *AdminHandler) GetAllWorkersHandler(c *gin.Context) {
	workers, err := ah.Workers.GetAllWorkers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// VerifyWorkerHandler records the outcome of document vetting.
func (ah *AdminHandler) VerifyWorkerHandler(c *gin.Context) {
	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := ah.Workers.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("worker vetting updated", zap.String("workerId", w.ID), zap.Bool("verified", w.Verified))
	c.JSON(http.StatusOK, w)
}
