package bookingRepo

import (
	"context"
	"time"

	"homeserve/models"
)

// OverlapQuery selects bookings competing for the same time window.
// Exactly one of WorkerID or UserID is set.
type OverlapQuery struct {
	WorkerID  string
	UserID    string
	Date      string
	Start     int
	End       int
	Statuses  []string
	ExcludeID string
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// FindOverlapping returns bookings whose [start, end) intersects the query window.
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Booking, error)
	// StatusSummary groups the bookings of one account by status. field is
	// "userId" or "workerId".
	StatusSummary(ctx context.Context, field, id string) ([]models.StatusCount, error)
	// ExpirePending marks pending bookings that started before cutoff as
	// expired and returns them.
	ExpirePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}
