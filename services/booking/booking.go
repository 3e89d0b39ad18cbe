package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeserve/database/repository"
	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// acceptedStatuses are the bookings a worker has committed to.
var acceptedStatuses = []string{models.BookingAccepted, models.BookingInProgress}

// checkOverlap rejects the window when the worker or the client already has
// an active booking intersecting it.
func (s *DefaultBookingService) checkOverlap(ctx context.Context, userID, workerID string, w timeWindow, excludeID string) error {
	clash, err := s.Bookings.FindOverlapping(ctx, bookingRepo.OverlapQuery{
		WorkerID: workerID, Date: w.Date, Start: w.Start, End: w.End,
		Statuses: models.ActiveBookingStatuses, ExcludeID: excludeID,
	})
	if err != nil {
		return err
	}
	if len(clash) > 0 {
		return apperr.Conflict("slot_taken", "worker already has a booking from %s to %s on %s", clash[0].StartTime, clash[0].EndTime, w.Date)
	}

	own, err := s.Bookings.FindOverlapping(ctx, bookingRepo.OverlapQuery{
		UserID: userID, Date: w.Date, Start: w.Start, End: w.End,
		Statuses: models.ActiveBookingStatuses, ExcludeID: excludeID,
	})
	if err != nil {
		return err
	}
	if len(own) > 0 {
		return apperr.Conflict("client_busy", "you already have a booking from %s to %s on %s", own[0].StartTime, own[0].EndTime, w.Date)
	}
	return nil
}

// CreateBooking books a worker for a time window on one day.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error) {
	window, err := parseWindow(req.Date, req.StartTime, req.EndTime, s.Location, s.now())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, apperr.Validation("address", "address is required")
	}

	worker, err := s.Workers.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("worker %s: %w", req.WorkerID, apperr.ErrNotFound)
		}
		return nil, err
	}
	if !worker.Verified || !worker.EmailVerified {
		return nil, fmt.Errorf("worker %s: %w", req.WorkerID, apperr.ErrNotFound)
	}
	if !worker.IsAvailable {
		return nil, apperr.Conflict("worker_unavailable", "worker is not taking bookings")
	}

	if err := s.checkOverlap(ctx, userID, worker.ID, window, ""); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:              uuid.New().String(),
		UserID:          userID,
		WorkerID:        worker.ID,
		ServiceCategory: worker.ServiceCategory,
		Description:     strings.TrimSpace(req.Description),
		Address:         strings.TrimSpace(req.Address),
		HourlyRate:      worker.HourlyRate,
		Amount:          computeAmount(worker.HourlyRate, window.Start, window.End),
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentUnpaid,
	}
	window.apply(b)
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.Metrics.BookingCreated(b.ServiceCategory)

	s.pushWorker(ctx, b, "New booking request",
		fmt.Sprintf("%s %s-%s at %s", b.Date, b.StartTime, b.EndTime, b.Address))
	return b, nil
}

func (s *DefaultBookingService) pushWorker(ctx context.Context, b *models.Booking, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"type": "booking", "bookingId": b.ID, "status": b.Status}
	if err := s.Notifier.SendWorkerPushNotification(ctx, b.WorkerID, title, body, data); err != nil {
		utils.GetLogger().Warn("booking push to worker failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) pushUser(ctx context.Context, b *models.Booking, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"type": "booking", "bookingId": b.ID, "status": b.Status}
	if err := s.Notifier.SendUserPushNotification(ctx, b.UserID, title, body, data); err != nil {
		utils.GetLogger().Warn("booking push to user failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}
