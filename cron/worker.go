package cron

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"
	"homeserve/services/tasks"
	"homeserve/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ExpireEvery is the cadence of the stale booking sweep.
const ExpireEvery = "@every 15m"

// BookingJobs is the booking work executed by background tasks.
type BookingJobs interface {
	ExpireStale(ctx context.Context) (int, error)
	SendReminder(ctx context.Context, p models.ReminderPayload) error
}

// Worker runs the asynq task server and the periodic scheduler.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewWorker builds the task server for jobs. Nothing runs until Start.
func NewWorker(opt asynq.RedisClientOpt, jobs BookingJobs, loc *time.Location) (*Worker, error) {
	logger := utils.GetLogger().Sugar()

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{tasks.QueueDefault: 1},
		Logger:      logger,
		LogLevel:    asynq.WarnLevel,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(jobs))
	mux.HandleFunc(tasks.TypeExpireBookings, handleExpireTask(jobs))

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: loc, Logger: logger, LogLevel: asynq.WarnLevel})
	if _, err := scheduler.Register(ExpireEvery, tasks.NewExpireBookingsTask(),
		asynq.Queue(tasks.QueueDefault), asynq.Unique(10*time.Minute)); err != nil {
		return nil, fmt.Errorf("failed to register booking expiry: %w", err)
	}
	return &Worker{server: srv, scheduler: scheduler, mux: mux}, nil
}

// Start launches the server and scheduler, retrying with backoff while
// Redis is unreachable.
func (w *Worker) Start() error {
	logger := utils.GetLogger()
	const maxAttempts = 5

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.server.Start(w.mux); err == nil {
			break
		}
		logger.Warn("task server failed to start",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	if err != nil {
		return fmt.Errorf("task server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("task scheduler: %w", err)
	}
	logger.Info("task worker started", zap.String("expiry", ExpireEvery))
	return nil
}

// Shutdown stops the scheduler, then waits for in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func handleReminderTask(jobs BookingJobs) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderTask(task)
		if err != nil {
			utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if err := jobs.SendReminder(ctx, p); err != nil {
			utils.GetLogger().Error("reminder failed", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleExpireTask(jobs BookingJobs) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := jobs.ExpireStale(ctx)
		return err
	}
}
