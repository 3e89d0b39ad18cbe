package worker

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

func (s *DefaultWorkerService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	creds, err := s.Auth.ResolveCredentials(req)
	if err != nil {
		return nil, err
	}

	w, err := s.Repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !utils.CheckPassword(w.PasswordHash, creds.Password) {
		return nil, apperr.ErrUnauthorized
	}

	if !w.EmailVerified {
		if err := s.Auth.SendOTP(ctx, utils.RoleWorker, otp.PurposeVerify, w.Email, w.Name); err != nil {
			return nil, err
		}
		return nil, &apperr.OTPRequiredError{Email: w.Email, Purpose: otp.PurposeVerify}
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleWorker, w.ID, w.Email)
	if err != nil {
		return nil, err
	}
	w.TokenHash = hash
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, w.ID)
	return authResponse(w, token), nil
}

// LoginWithOTP signs in with an emailed login code instead of a password.
func (s *DefaultWorkerService) LoginWithOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	w, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, otp.ErrOTPExpired
		}
		return nil, err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleWorker, otp.PurposeLogin, w.Email, code); err != nil {
		return nil, err
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleWorker, w.ID, w.Email)
	if err != nil {
		return nil, err
	}
	w.EmailVerified = true
	w.TokenHash = hash
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, w.ID)
	return authResponse(w, token), nil
}

func (s *DefaultWorkerService) Logout(ctx context.Context, workerID string) error {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return err
	}
	w.TokenHash = ""
	if err := s.Repo.Update(ctx, w); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, workerID)
	return nil
}

func (s *DefaultWorkerService) TokenHash(ctx context.Context, workerID string) (string, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return "", err
	}
	return w.TokenHash, nil
}

func (s *DefaultWorkerService) ForgotPassword(ctx context.Context, email string) error {
	w, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.Auth.SendOTP(ctx, utils.RoleWorker, otp.PurposeReset, w.Email, w.Name); err != nil {
		utils.GetLogger().Error("ForgotPassword: failed to send reset code", zap.String("workerId", w.ID), zap.Error(err))
	}
	return nil
}

func (s *DefaultWorkerService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := utils.VerifyPasswordComplexity(req.NewPassword); err != nil {
		return apperr.Validation("newPassword", "%s", err.Error())
	}
	w, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return otp.ErrOTPExpired
		}
		return err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleWorker, otp.PurposeReset, w.Email, req.OTP); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	w.PasswordHash = hash
	w.TokenHash = ""
	w.EmailVerified = true
	if err := s.Repo.Update(ctx, w); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, w.ID)
	return nil
}
