package booking

import (
	"context"
	"fmt"

	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

// ExpireStale marks pending bookings whose start has passed as expired and
// tells the clients.
func (s *DefaultBookingService) ExpireStale(ctx context.Context) (int, error) {
	expired, err := s.Bookings.ExpirePending(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for i := range expired {
		b := &expired[i]
		s.Metrics.BookingTransition(models.BookingExpired)
		s.pushUser(ctx, b, "Booking expired",
			fmt.Sprintf("The worker did not respond to your booking on %s at %s", b.Date, b.StartTime))
	}
	if len(expired) > 0 {
		utils.GetLogger().Info("expired stale bookings", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

// SendReminder pushes the upcoming-job reminder to both sides. Reminders
// for bookings that are no longer accepted are dropped.
func (s *DefaultBookingService) SendReminder(ctx context.Context, p models.ReminderPayload) error {
	b, err := s.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if b.Status != models.BookingAccepted {
		utils.GetLogger().Debug("skipping reminder", zap.String("bookingId", b.ID), zap.String("status", b.Status))
		return nil
	}
	body := fmt.Sprintf("%s %s-%s at %s", b.Date, b.StartTime, b.EndTime, b.Address)
	s.pushUser(ctx, b, "Upcoming booking", body)
	s.pushWorker(ctx, b, "Upcoming job", body)
	return nil
}
