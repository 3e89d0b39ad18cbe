package user

import (
	"context"
	"fmt"

	"homeserve/models"
	"homeserve/services/storage"
	"homeserve/utils"

	"go.uber.org/zap"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// DeleteUser removes the account and its avatar.
func (s *DefaultUserService) DeleteUser(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if s.Bookings != nil {
		if _, err := s.Bookings.CancelForAccount(ctx, utils.RoleUser, userID); err != nil {
			return fmt.Errorf("failed to cancel open bookings: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.Auth.Revoke(ctx, utils.RoleUser, userID)
	if u.ProfileImage != "" {
		if err := s.Storage.Delete(ctx, "avatars/users/"+u.ID, storage.ResourceImage); err != nil {
			utils.GetLogger().Warn("DeleteUser: failed to remove avatar", zap.String("userId", userID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAll(ctx)
}
