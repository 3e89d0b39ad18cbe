package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"homeserve/services/apperr"
	"homeserve/services/otp"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	var (
		validation *apperr.ValidationError
		conflict   *apperr.ConflictError
		otpNeeded  *apperr.OTPRequiredError
		cooldown   *otp.CooldownError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, validation.Error(), "validation")
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, conflict.Message, conflict.Code)
	case errors.As(err, &otpNeeded):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   otpNeeded.Error(),
			"code":    "otp_required",
			"email":   otpNeeded.Email,
			"purpose": otpNeeded.Purpose,
		})
	case errors.As(err, &cooldown):
		seconds := int(math.Ceil(cooldown.RetryAfter.Seconds()))
		c.Header("Retry-After", fmt.Sprint(seconds))
		utils.JSONError(c, http.StatusTooManyRequests, err.Error(), "otp_cooldown")
	case errors.Is(err, otp.ErrOTPExpired):
		utils.JSONError(c, http.StatusBadRequest, "Code expired or not issued", "otp_expired")
	case errors.Is(err, otp.ErrOTPInvalid):
		utils.JSONError(c, http.StatusBadRequest, "Incorrect code", "otp_invalid")
	case errors.Is(err, otp.ErrOTPAttemptsExceeded):
		utils.JSONError(c, http.StatusTooManyRequests, "Too many attempts; request a new code", "otp_attempts_exceeded")
	case errors.Is(err, otp.ErrUnknownPurpose):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "validation")
	case errors.Is(err, apperr.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "unauthorized")
	case errors.Is(err, apperr.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", "not_found")
	default:
		getLogger(c).Error("request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "internal")
	}
}

// bindError answers a malformed request body.
func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), "invalid_request")
}
