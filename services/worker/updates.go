package worker

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

func (s *DefaultWorkerService) UpdateProfile(ctx context.Context, workerID string, req models.WorkerUpdateRequest) (*models.Worker, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name", "name cannot be empty")
		}
		w.Name = name
	}
	if req.PhoneNumber != nil {
		w.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Skills != nil {
		w.Skills = cleanSkills(*req.Skills)
	}
	if req.Bio != nil {
		w.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate <= 0 {
			return nil, apperr.Validation("hourlyRate", "hourly rate must be positive")
		}
		w.HourlyRate = *req.HourlyRate
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return nil, apperr.Validation("experienceYears", "experience cannot be negative")
		}
		w.ExperienceYears = *req.ExperienceYears
	}
	if req.City != nil {
		w.City = strings.TrimSpace(*req.City)
	}
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	return w, nil
}

func (s *DefaultWorkerService) ChangePassword(ctx context.Context, workerID string, req models.ChangePasswordRequest) (*models.AuthResponse, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(w.PasswordHash, req.CurrentPassword) {
		return nil, apperr.ErrUnauthorized
	}
	if err := utils.VerifyPasswordComplexity(req.NewPassword); err != nil {
		return nil, apperr.Validation("newPassword", "%s", err.Error())
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	token, tokenHash, err := s.Auth.IssueToken(utils.RoleWorker, w.ID, w.Email)
	if err != nil {
		return nil, err
	}
	w.PasswordHash = hash
	w.TokenHash = tokenHash
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, w.ID)
	return authResponse(w, token), nil
}

func (s *DefaultWorkerService) UpdateAvatar(ctx context.Context, workerID string, file io.Reader) (*models.Worker, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	uploaded, err := s.Storage.Upload(ctx, file, "avatars/workers", w.ID, storage.ResourceImage)
	if err != nil {
		return nil, err
	}
	w.ProfileImage = uploaded.URL
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return w, nil
}

func (s *DefaultWorkerService) SetAvailability(ctx context.Context, workerID string, available bool) (*models.Worker, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	w.IsAvailable = available
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	return w, nil
}

func (s *DefaultWorkerService) SetFCMToken(ctx context.Context, workerID, token string) error {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return err
	}
	w.FCMToken = strings.TrimSpace(token)
	return s.Repo.Update(ctx, w)
}
