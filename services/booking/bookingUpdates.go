package booking

import (
	"context"
	"fmt"
	"strings"

	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/utils"

	"go.uber.org/zap"
)

func invalidTransition(from, to string) error {
	return apperr.Conflict("invalid_transition", "booking cannot move from %s to %s", from, to)
}

func (s *DefaultBookingService) save(ctx context.Context, b *models.Booking) error {
	if err := s.Bookings.Update(ctx, b); err != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	s.Metrics.BookingTransition(b.Status)
	return nil
}

func (s *DefaultBookingService) cancelReminder(ctx context.Context, bookingID string) {
	if err := s.Reminders.CancelReminder(ctx, bookingID); err != nil {
		utils.GetLogger().Warn("failed to remove booking reminder", zap.String("bookingId", bookingID), zap.Error(err))
	}
}

// CancelBooking is the client cancelling a pending or accepted booking.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID, reason string) (*models.Booking, error) {
	b, err := s.getForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingPending && b.Status != models.BookingAccepted {
		return nil, invalidTransition(b.Status, models.BookingCancelled)
	}

	b.Status = models.BookingCancelled
	b.CancelReason = strings.TrimSpace(reason)
	b.CancelledBy = utils.RoleUser
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	s.cancelReminder(ctx, b.ID)
	s.pushWorker(ctx, b, "Booking cancelled",
		fmt.Sprintf("The client cancelled the booking on %s at %s", b.Date, b.StartTime))
	return b, nil
}

// CancelForAccount cancels every pending or accepted booking of a user or
// worker whose account is going away and tells the other side.
func (s *DefaultBookingService) CancelForAccount(ctx context.Context, role, accountID string) (int, error) {
	filter := models.BookingFilter{UserID: accountID}
	if role == utils.RoleWorker {
		filter = models.BookingFilter{WorkerID: accountID}
	}

	cancelled := 0
	for _, status := range []string{models.BookingPending, models.BookingAccepted} {
		filter.Status = status
		open, err := s.Bookings.List(ctx, filter)
		if err != nil {
			return cancelled, err
		}
		for i := range open {
			b := &open[i]
			b.Status = models.BookingCancelled
			b.CancelReason = "account deleted"
			b.CancelledBy = role
			if err := s.save(ctx, b); err != nil {
				return cancelled, err
			}
			cancelled++
			s.cancelReminder(ctx, b.ID)
			msg := fmt.Sprintf("The booking on %s at %s was cancelled because the account was closed", b.Date, b.StartTime)
			if role == utils.RoleWorker {
				s.pushUser(ctx, b, "Booking cancelled", msg)
			} else {
				s.pushWorker(ctx, b, "Booking cancelled", msg)
			}
		}
	}
	return cancelled, nil
}

// RescheduleBooking moves a pending or accepted booking to a new window.
// The worker has to accept it again.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, userID, bookingID string, req models.RescheduleRequest) (*models.Booking, error) {
	b, err := s.getForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingPending && b.Status != models.BookingAccepted {
		return nil, apperr.Conflict("invalid_transition", "a %s booking cannot be rescheduled", b.Status)
	}

	window, err := parseWindow(req.Date, req.StartTime, req.EndTime, s.Location, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, b.UserID, b.WorkerID, window, b.ID); err != nil {
		return nil, err
	}

	wasAccepted := b.Status == models.BookingAccepted
	window.apply(b)
	b.Amount = computeAmount(b.HourlyRate, b.Start, b.End)
	b.Status = models.BookingPending
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	if wasAccepted {
		s.cancelReminder(ctx, b.ID)
	}
	s.pushWorker(ctx, b, "Booking rescheduled",
		fmt.Sprintf("New time: %s %s-%s", b.Date, b.StartTime, b.EndTime))
	return b, nil
}

// UpdateStatus applies a worker's status change.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, workerID, bookingID string, req models.StatusUpdateRequest) (*models.Booking, error) {
	to := strings.TrimSpace(req.Status)
	if !models.IsBookingStatus(to) {
		return nil, apperr.Validation("status", "unknown booking status %q", req.Status)
	}
	if to == models.BookingExpired || to == models.BookingPending {
		return nil, apperr.Validation("status", "status %s cannot be set by a worker", to)
	}

	b, err := s.getForWorker(ctx, workerID, bookingID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(b.Status, to) {
		return nil, invalidTransition(b.Status, to)
	}

	switch to {
	case models.BookingAccepted:
		clash, err := s.Bookings.FindOverlapping(ctx, bookingRepo.OverlapQuery{
			WorkerID: workerID, Date: b.Date, Start: b.Start, End: b.End,
			Statuses: acceptedStatuses, ExcludeID: b.ID,
		})
		if err != nil {
			return nil, err
		}
		if len(clash) > 0 {
			return nil, apperr.Conflict("slot_taken", "you already accepted a booking from %s to %s on %s", clash[0].StartTime, clash[0].EndTime, b.Date)
		}
	case models.BookingCancelled:
		// Pending requests are rejected, not cancelled.
		if b.Status != models.BookingAccepted {
			return nil, invalidTransition(b.Status, to)
		}
		if strings.TrimSpace(req.Reason) == "" {
			return nil, apperr.Validation("reason", "a reason is required to cancel an accepted booking")
		}
		b.CancelReason = strings.TrimSpace(req.Reason)
		b.CancelledBy = utils.RoleWorker
	case models.BookingRejected:
		b.CancelReason = strings.TrimSpace(req.Reason)
		b.CancelledBy = utils.RoleWorker
	case models.BookingCompleted:
		now := s.now()
		b.CompletedAt = &now
	}

	b.Status = to
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}

	switch to {
	case models.BookingAccepted:
		if err := s.Reminders.ScheduleReminder(ctx, *b); err != nil {
			utils.GetLogger().Warn("failed to schedule booking reminder", zap.String("bookingId", b.ID), zap.Error(err))
		}
	case models.BookingRejected, models.BookingCancelled:
		s.cancelReminder(ctx, b.ID)
	case models.BookingCompleted:
		s.cancelReminder(ctx, b.ID)
		s.emailInvoice(ctx, b)
	}

	s.pushUser(ctx, b, statusTitle(to), fmt.Sprintf("Booking on %s at %s is now %s", b.Date, b.StartTime, strings.ReplaceAll(to, "_", " ")))
	return b, nil
}

func statusTitle(status string) string {
	switch status {
	case models.BookingAccepted:
		return "Booking accepted"
	case models.BookingRejected:
		return "Booking declined"
	case models.BookingInProgress:
		return "Your worker has started"
	case models.BookingCompleted:
		return "Job completed"
	case models.BookingCancelled:
		return "Booking cancelled"
	}
	return "Booking update"
}
