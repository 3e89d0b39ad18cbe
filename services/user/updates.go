package user

import (
	"context"
	"fmt"
	"io"
	"strings"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/storage"
	"homeserve/utils"
)

func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name", "name cannot be empty")
		}
		u.Name = name
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Address != nil {
		u.Address = strings.TrimSpace(*req.Address)
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// ChangePassword replaces the password and returns a fresh token; the old
// token stops working.
func (s *DefaultUserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return nil, apperr.ErrUnauthorized
	}
	if err := utils.VerifyPasswordComplexity(req.NewPassword); err != nil {
		return nil, apperr.Validation("newPassword", "%s", err.Error())
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	token, tokenHash, err := s.Auth.IssueToken(utils.RoleUser, u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	u.TokenHash = tokenHash
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleUser, u.ID)
	return authResponse(u, token), nil
}

// UpdateAvatar stores an already validated image as the profile picture.
func (s *DefaultUserService) UpdateAvatar(ctx context.Context, userID string, file io.Reader) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	uploaded, err := s.Storage.Upload(ctx, file, "avatars/users", u.ID, storage.ResourceImage)
	if err != nil {
		return nil, err
	}
	u.ProfileImage = uploaded.URL
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return u, nil
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, userID, token string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.FCMToken = strings.TrimSpace(token)
	return s.Repo.Update(ctx, u)
}
