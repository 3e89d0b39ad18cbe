package worker

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

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Register creates a worker account. It stays out of the catalog until the
// email is confirmed and an admin has vetted the documents.
func (s *DefaultWorkerService) Register(ctx context.Context, req models.WorkerRegistrationRequest) (*models.Worker, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	if !models.IsServiceCategory(req.ServiceCategory) {
		return nil, apperr.Validation("serviceCategory", "unknown service category %q", req.ServiceCategory)
	}
	if req.HourlyRate <= 0 {
		return nil, apperr.Validation("hourlyRate", "hourly rate must be positive")
	}
	if req.ExperienceYears < 0 {
		return nil, apperr.Validation("experienceYears", "experience cannot be negative")
	}
	if err := utils.VerifyPasswordComplexity(req.Password); err != nil {
		return nil, apperr.Validation("password", "%s", err.Error())
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	w := &models.Worker{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(req.Name),
		Email:           req.Email,
		PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
		ServiceCategory: req.ServiceCategory,
		Skills:          cleanSkills(req.Skills),
		HourlyRate:      req.HourlyRate,
		ExperienceYears: req.ExperienceYears,
		City:            strings.TrimSpace(req.City),
		IsAvailable:     true,
		PasswordHash:    hash,
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email_taken", "an account with email %s already exists", req.Email)
		}
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	if err := s.Auth.SendOTP(ctx, utils.RoleWorker, otp.PurposeVerify, w.Email, w.Name); err != nil {
		utils.GetLogger().Error("Register: failed to send verification code", zap.String("workerId", w.ID), zap.Error(err))
	}
	return w, nil
}

func (s *DefaultWorkerService) VerifyOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	w, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, otp.ErrOTPExpired
		}
		return nil, err
	}
	if err := s.Auth.OTP.Verify(ctx, utils.RoleWorker, otp.PurposeVerify, w.Email, code); err != nil {
		return nil, err
	}

	token, hash, err := s.Auth.IssueToken(utils.RoleWorker, w.ID, w.Email)
	if err != nil {
		return nil, err
	}
	w.EmailVerified = true
	w.TokenHash = hash
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to mark worker verified: %w", err)
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, w.ID)
	return authResponse(w, token), nil
}

func (s *DefaultWorkerService) ResendOTP(ctx context.Context, email, purpose string) error {
	if purpose == "" {
		purpose = otp.PurposeVerify
	}
	w, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if purpose == otp.PurposeVerify && w.EmailVerified {
		return apperr.Conflict("already_verified", "account is already verified")
	}
	return s.Auth.OTP.Issue(ctx, utils.RoleWorker, purpose, w.Email, w.Name)
}
