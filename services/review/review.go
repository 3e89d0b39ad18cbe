package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeserve/database/repository"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *DefaultReviewService) Submit(ctx context.Context, userID string, req models.ReviewRequest) (*models.Review, bool, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, false, apperr.Validation("rating", "must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > 1000 {
		return nil, false, apperr.Validation("comment", "must be at most 1000 characters")
	}

	b, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, false, err
	}
	if b.UserID != userID {
		return nil, false, fmt.Errorf("booking %s: %w", req.BookingID, apperr.ErrNotFound)
	}
	if b.Status != models.BookingCompleted {
		return nil, false, apperr.Conflict("not_reviewable", "only completed bookings can be reviewed")
	}

	r := &models.Review{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		UserID:    userID,
		WorkerID:  b.WorkerID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	created, err := s.Reviews.UpsertByBooking(ctx, r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save review: %w", err)
	}
	s.Metrics.ReviewSubmitted(created)
	s.refreshRating(ctx, r.WorkerID)
	return r, created, nil
}

// refreshRating recomputes the worker's rating from all of their reviews.
// A failure leaves the previous aggregate in place.
func (s *DefaultReviewService) refreshRating(ctx context.Context, workerID string) {
	logger := utils.GetLogger()
	summary, err := s.Reviews.Summary(ctx, workerID)
	if err != nil {
		logger.Error("failed to summarise reviews", zap.String("workerId", workerID), zap.Error(err))
		return
	}
	if err := s.Workers.UpdateRating(ctx, workerID, summary); err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error("failed to update worker rating", zap.String("workerId", workerID), zap.Error(err))
	}
}

func (s *DefaultReviewService) ListMine(ctx context.Context, userID string) ([]models.Review, error) {
	return s.Reviews.ListByUser(ctx, userID)
}

func (s *DefaultReviewService) GetByBooking(ctx context.Context, userID, bookingID string) (*models.Review, error) {
	r, err := s.Reviews.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, fmt.Errorf("review for booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	return r, nil
}

func (s *DefaultReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	r, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return apperr.ErrForbidden
	}
	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.refreshRating(ctx, r.WorkerID)
	return nil
}

func (s *DefaultReviewService) ListForWorker(ctx context.Context, workerID string, page, limit int) ([]models.Review, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.Reviews.ListByWorker(ctx, workerID, page, limit)
}
