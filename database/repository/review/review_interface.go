package reviewRepo

import (
	"context"

	"homeserve/models"
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// UpsertByBooking inserts review or, when its booking already has one,
	// updates rating and comment in place. The stored document is written
	// back into review; created reports whether a new document was inserted.
	UpsertByBooking(ctx context.Context, review *models.Review) (created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	ListByWorker(ctx context.Context, workerID string, page, limit int) ([]models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
	// Summary averages all reviews of a worker.
	Summary(ctx context.Context, workerID string) (models.RatingSummary, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
