package review

import (
	"context"

	bookingRepo "homeserve/database/repository/booking"
	reviewRepo "homeserve/database/repository/review"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/models"
	"homeserve/services/analytics"
)

// ReviewService defines client reviews of completed bookings.
type ReviewService interface {
	// Submit creates the booking's review or updates the existing one.
	// created reports which of the two happened.
	Submit(ctx context.Context, userID string, req models.ReviewRequest) (review *models.Review, created bool, err error)
	ListMine(ctx context.Context, userID string) ([]models.Review, error)
	GetByBooking(ctx context.Context, userID, bookingID string) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID string) error
	ListForWorker(ctx context.Context, workerID string, page, limit int) ([]models.Review, error)
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Reviews  reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Workers  workerRepo.WorkerRepository
	Metrics  *analytics.Metrics
}

func NewReviewService(
	reviews reviewRepo.ReviewRepository,
	bookings bookingRepo.BookingRepository,
	workers workerRepo.WorkerRepository,
	metrics *analytics.Metrics,
) *DefaultReviewService {
	return &DefaultReviewService{Reviews: reviews, Bookings: bookings, Workers: workers, Metrics: metrics}
}
