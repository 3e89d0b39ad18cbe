package booking

import (
	"context"
	"fmt"

	"homeserve/models"
	"homeserve/services/apperr"
)

// Bookings owned by another account are reported as not found.
func (s *DefaultBookingService) getOwned(ctx context.Context, bookingID string, owns func(*models.Booking) bool) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !owns(b) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	return b, nil
}

func (s *DefaultBookingService) getForUser(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID, func(b *models.Booking) bool { return b.UserID == userID })
}

func (s *DefaultBookingService) getForWorker(ctx context.Context, workerID, bookingID string) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID, func(b *models.Booking) bool { return b.WorkerID == workerID })
}

func (s *DefaultBookingService) GetUserBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	return s.getForUser(ctx, userID, bookingID)
}

func (s *DefaultBookingService) GetWorkerBooking(ctx context.Context, workerID, bookingID string) (*models.Booking, error) {
	return s.getForWorker(ctx, workerID, bookingID)
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID, status string, page, limit int) ([]models.Booking, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.Bookings.List(ctx, models.BookingFilter{UserID: userID, Status: status, Page: page, Limit: limit})
}

func (s *DefaultBookingService) ListWorkerBookings(ctx context.Context, workerID, status string, page, limit int) ([]models.Booking, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.Bookings.List(ctx, models.BookingFilter{WorkerID: workerID, Status: status, Page: page, Limit: limit})
}

func (s *DefaultBookingService) ListAll(ctx context.Context, status string, page, limit int) ([]models.Booking, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.Bookings.List(ctx, models.BookingFilter{Status: status, Page: page, Limit: limit})
}
