package handlers

import (
	"context"
	"net/http"

	"homeserve/middleware"
	"homeserve/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// accountService is the auth surface shared by user and worker accounts.
type accountService interface {
	VerifyOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	ResendOTP(ctx context.Context, email, purpose string) error
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	LoginWithOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	Logout(ctx context.Context, id string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, id string, req models.ChangePasswordRequest) (*models.AuthResponse, error)
	SetFCMToken(ctx context.Context, id, token string) error
}

// accountHandler serves the auth endpoints of one account kind.
type accountHandler struct {
	accounts accountService
}

func (h *accountHandler) VerifyOTPHandler(c *gin.Context) {
	var req models.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.accounts.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) ResendOTPHandler(c *gin.Context) {
	var req models.OTPResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.accounts.ResendOTP(c.Request.Context(), req.Email, req.Purpose); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists a code has been sent"})
}

// LoginHandler accepts plaintext credentials or an RSA envelope.
func (h *accountHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("login", zap.String("id", resp.ID), zap.String("role", resp.Role))
	c.JSON(http.StatusOK, resp)
}

// LoginOTPHandler signs in with a code requested via resend-otp with
// purpose "login".
func (h *accountHandler) LoginOTPHandler(c *gin.Context) {
	var req models.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.accounts.LoginWithOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("login", zap.String("id", resp.ID), zap.String("role", resp.Role), zap.String("method", "otp"))
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) LogoutHandler(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), middleware.AccountID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ForgotPasswordHandler always answers 200 so account existence does not leak.
func (h *accountHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		getLogger(c).Warn("forgot password failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists a reset code has been sent"})
}

func (h *accountHandler) ResetPasswordHandler(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *accountHandler) ChangePasswordHandler(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.accounts.ChangePassword(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req models.FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.accounts.SetFCMToken(c.Request.Context(), middleware.AccountID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}
