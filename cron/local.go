package cron

import (
	"context"
	"time"

	"homeserve/utils"

	"go.uber.org/zap"
)

// ExpireInterval matches ExpireEvery for the in-process sweep.
const ExpireInterval = 15 * time.Minute

// StartLocalExpiry sweeps stale bookings on a ticker until ctx is done. It
// stands in for the asynq scheduler when no task queue is available.
func StartLocalExpiry(ctx context.Context, jobs BookingJobs, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := jobs.ExpireStale(ctx); err != nil {
					utils.GetLogger().Error("booking expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
