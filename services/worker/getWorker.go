package worker

import (
	"context"
	"fmt"
	"strings"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/storage"
	"homeserve/utils"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *DefaultWorkerService) GetWorkerByID(ctx context.Context, workerID string) (*models.Worker, error) {
	return s.Repo.GetByID(ctx, workerID)
}

// GetPublicWorker returns a catalog entry. Workers not yet vetted are hidden.
func (s *DefaultWorkerService) GetPublicWorker(ctx context.Context, workerID string) (*models.PublicWorker, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if !w.Verified || !w.EmailVerified {
		return nil, fmt.Errorf("worker %s: %w", workerID, apperr.ErrNotFound)
	}
	pub := w.Public()
	return &pub, nil
}

func normalizeCriteria(c models.WorkerSearchCriteria) (models.WorkerSearchCriteria, error) {
	c.Category = strings.TrimSpace(c.Category)
	c.City = strings.TrimSpace(c.City)
	if c.Category != "" && !models.IsServiceCategory(c.Category) {
		return c, apperr.Validation("category", "unknown service category %q", c.Category)
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		return c, apperr.Validation("minRating", "must be between 0 and 5")
	}
	if c.Page < 1 {
		c.Page = 1
	}
	if c.Limit < 1 {
		c.Limit = defaultPageSize
	}
	if c.Limit > maxPageSize {
		c.Limit = maxPageSize
	}
	return c, nil
}

// Search lists vetted workers, best rated first.
func (s *DefaultWorkerService) Search(ctx context.Context, criteria models.WorkerSearchCriteria) (*SearchResult, error) {
	c, err := normalizeCriteria(criteria)
	if err != nil {
		return nil, err
	}
	workers, total, err := s.Repo.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicWorker, 0, len(workers))
	for _, w := range workers {
		out = append(out, w.Public())
	}
	return &SearchResult{Workers: out, Total: total, Page: c.Page, Limit: c.Limit}, nil
}

func (s *DefaultWorkerService) GetAllWorkers(ctx context.Context) ([]models.Worker, error) {
	return s.Repo.GetAll(ctx)
}

// SetVerified records the admin vetting decision.
func (s *DefaultWorkerService) SetVerified(ctx context.Context, workerID string, verified bool) (*models.Worker, error) {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	w.Verified = verified
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}
	return w, nil
}

// DeleteWorker removes the account and its uploaded files.
func (s *DefaultWorkerService) DeleteWorker(ctx context.Context, workerID string) error {
	w, err := s.Repo.GetByID(ctx, workerID)
	if err != nil {
		return err
	}
	if s.Bookings != nil {
		if _, err := s.Bookings.CancelForAccount(ctx, utils.RoleWorker, workerID); err != nil {
			return fmt.Errorf("failed to cancel open bookings: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, workerID); err != nil {
		return err
	}
	s.Auth.Revoke(ctx, utils.RoleWorker, workerID)

	logger := utils.GetLogger()
	if w.ProfileImage != "" {
		if err := s.Storage.Delete(ctx, "avatars/workers/"+w.ID, storage.ResourceImage); err != nil {
			logger.Warn("DeleteWorker: failed to remove avatar", zap.String("workerId", workerID), zap.Error(err))
		}
	}
	for _, d := range w.Documents {
		resource := storage.ResourceImage
		if d.MimeType == "application/pdf" {
			resource = storage.ResourceRaw
		}
		if err := s.Storage.Delete(ctx, d.PublicID, resource); err != nil {
			logger.Warn("DeleteWorker: failed to remove document", zap.String("documentId", d.ID), zap.Error(err))
		}
	}
	return nil
}
