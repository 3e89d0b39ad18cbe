package user

import (
	"context"
	"errors"
	"fmt"

	"homeserve/database/repository"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/otp"
	"homeserve/utils"

	"go.uber.org/zap"
)

// ForgotPassword emails a reset code. It never reveals whether the email
// belongs to an account.
func (s *DefaultUserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.Auth.SendOTP(ctx, utils.RoleUser, otp.PurposeReset, u.Email, u.Name); err != nil {
		utils.GetLogger().Error("ForgotPassword: failed to send reset code", zap.String("userId", u.ID), zap.Error(err))
	}
	return nil
}

// ResetPassword sets a new password after a valid reset code and signs out
// every session.
func (s *DefaultUserService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := utils.VerifyPasswordComplexity(req.NewPassword); err != nil {
		return apperr.Validation("newPassword", "%s", err.Error())
	}
	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return otp.ErrOTPExpired
		}
		return err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleUser, otp.PurposeReset, u.Email, req.OTP); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.TokenHash = ""
	// Completing a reset proves ownership of the mailbox.
	u.Verified = true
	if err := s.Repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, u.ID)
	return nil
}
