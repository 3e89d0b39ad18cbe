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
)

// Login checks credentials and issues a token. Unverified accounts get a
// new verification code and an OTPRequiredError instead.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	creds, err := s.Auth.ResolveCredentials(req)
	if err != nil {
		return nil, err
	}

	u, err := s.Repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !utils.CheckPassword(u.PasswordHash, creds.Password) {
		return nil, apperr.ErrUnauthorized
	}

	if !u.Verified {
		if err := s.Auth.SendOTP(ctx, utils.RoleUser, otp.PurposeVerify, u.Email, u.Name); err != nil {
			return nil, err
		}
		return nil, &apperr.OTPRequiredError{Email: u.Email, Purpose: otp.PurposeVerify}
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleUser, u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.TokenHash = hash
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, u.ID)
	return authResponse(u, token), nil
}

// LoginWithOTP signs in with an emailed login code instead of a password.
// The code proves the mailbox, so the account is marked verified.
func (s *DefaultUserService) LoginWithOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, otp.ErrOTPExpired
		}
		return nil, err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleUser, otp.PurposeLogin, u.Email, code); err != nil {
		return nil, err
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleUser, u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.Verified = true
	u.TokenHash = hash
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, u.ID)
	return authResponse(u, token), nil
}

// Logout revokes the active token.
func (s *DefaultUserService) Logout(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.TokenHash = ""
	if err := s.Repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, userID)
	return nil
}

func (s *DefaultUserService) TokenHash(ctx context.Context, userID string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.TokenHash, nil
}
