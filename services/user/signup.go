package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeserve/database/repository"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/otp"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register creates an unverified account and emails a verification code.
func (s *DefaultUserService) Register(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	if err := utils.VerifyPasswordComplexity(req.Password); err != nil {
		return nil, apperr.Validation("password", "%s", err.Error())
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email_taken", "an account with email %s already exists", req.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.Auth.SendOTP(ctx, utils.RoleUser, otp.PurposeVerify, u.Email, u.Name); err != nil {
		// The account exists; the client can ask for a new code.
		utils.GetLogger().Error("Register: failed to send verification code", zap.String("userId", u.ID), zap.Error(err))
	}
	return u, nil
}

// VerifyOTP confirms the verification code and signs the user in.
func (s *DefaultUserService) VerifyOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, otp.ErrOTPExpired
		}
		return nil, err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleUser, otp.PurposeVerify, u.Email, code); err != nil {
		return nil, err
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleUser, u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.Verified = true
	u.TokenHash = hash
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, u.ID)
	return authResponse(u, token), nil
}

// ResendOTP issues a fresh code. Unknown emails succeed silently.
func (s *DefaultUserService) ResendOTP(ctx context.Context, email, purpose string) error {
	if purpose == "" {
		purpose = otp.PurposeVerify
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if purpose == otp.PurposeVerify && u.Verified {
		return apperr.Conflict("already_verified", "account is already verified")
	}
	return s.Auth.OTP.Issue(ctx, utils.RoleUser, purpose, u.Email, u.Name)
}
