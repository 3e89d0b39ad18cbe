package handlers

import (
	"net/http"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/services/analytics"
	"homeserve/services/user"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the client app account endpoints.
type UserHandler struct {
	accountHandler
	Users       user.UserService
	Analytics   analytics.AnalyticsService
	MaxUploadMB int
}

func NewUserHandler(us user.UserService, as analytics.AnalyticsService, maxUploadMB int) *UserHandler {
	return &UserHandler{accountHandler: accountHandler{accounts: us}, Users: us, Analytics: as, MaxUploadMB: maxUploadMB}
}

func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered; check your email for the verification code",
		"user":    u,
	})
}

func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	u, err := h.Users.GetUserByID(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UploadAvatarHandler(c *gin.Context) {
	file, err := readUpload(c, "file", int64(h.MaxUploadMB)<<20, imageTypes)
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := h.Users.UpdateAvatar(c.Request.Context(), middleware.AccountID(c), file.Reader())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) DeleteAccountHandler(c *gin.Context) {
	if err := h.Users.DeleteUser(c.Request.Context(), middleware.AccountID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) AnalyticsHandler(c *gin.Context) {
	out, err := h.Analytics.UserDashboard(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
