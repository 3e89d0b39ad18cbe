package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderScheduler schedules and withdraws booking reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking models.Booking) error
	CancelReminder(ctx context.Context, bookingID string) error
}

// AsynqReminderScheduler enqueues reminders as delayed asynq tasks.
type AsynqReminderScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	lead      time.Duration
	now       func() time.Time
}

func NewAsynqReminderScheduler(opt asynq.RedisClientOpt, lead time.Duration) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		lead:      lead,
		now:       time.Now,
	}
}

// fireTime is lead before the start, or now when that moment has passed.
// ok is false for bookings that have already started.
func fireTime(startAt, now time.Time, lead time.Duration) (time.Time, bool) {
	if !startAt.After(now) {
		return time.Time{}, false
	}
	at := startAt.Add(-lead)
	if at.Before(now) {
		at = now
	}
	return at, true
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	at, ok := fireTime(b.StartAt, s.now(), s.lead)
	if !ok {
		return nil
	}
	// A rescheduled booking replaces its earlier reminder.
	if err := s.CancelReminder(ctx, b.ID); err != nil {
		return err
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		WorkerID:  b.WorkerID,
		StartsAt:  b.StartAt.Format(time.RFC3339),
		Address:   b.Address,
	}, at)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	utils.GetLogger().Info("reminder scheduled",
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", at))
	return nil
}

func (s *AsynqReminderScheduler) CancelReminder(_ context.Context, bookingID string) error {
	err := s.inspector.DeleteTask(QueueDefault, ReminderTaskID(bookingID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("failed to delete reminder for booking %s: %w", bookingID, err)
}

func (s *AsynqReminderScheduler) Close() error {
	if err := s.inspector.Close(); err != nil {
		return err
	}
	return s.client.Close()
}

// NoopReminderScheduler is used when no task queue is configured.
type NoopReminderScheduler struct{}

func (NoopReminderScheduler) ScheduleReminder(context.Context, models.Booking) error { return nil }
func (NoopReminderScheduler) CancelReminder(context.Context, string) error          { return nil }
