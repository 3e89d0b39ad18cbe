package analytics

import (
	"context"
	"fmt"
	"math"

	bookingRepo "homeserve/database/repository/booking"
	reviewRepo "homeserve/database/repository/review"
	"homeserve/models"
)

// AnalyticsService builds the dashboard summaries of both apps.
type AnalyticsService interface {
	WorkerDashboard(ctx context.Context, workerID string) (*models.WorkerAnalytics, error)
	UserDashboard(ctx context.Context, userID string) (*models.UserAnalytics, error)
}

type DefaultAnalyticsService struct {
	Bookings bookingRepo.BookingRepository
	Reviews  reviewRepo.ReviewRepository
}

func NewAnalyticsService(bookings bookingRepo.BookingRepository, reviews reviewRepo.ReviewRepository) *DefaultAnalyticsService {
	return &DefaultAnalyticsService{Bookings: bookings, Reviews: reviews}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// tally folds a status summary into per-status counts, the total and the
// amount of completed bookings.
func tally(rows []models.StatusCount) (byStatus map[string]int, total int, completedAmount float64) {
	byStatus = make(map[string]int, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
		total += row.Count
		if row.Status == models.BookingCompleted {
			completedAmount = row.Amount
		}
	}
	return byStatus, total, roundCents(completedAmount)
}

func (s *DefaultAnalyticsService) WorkerDashboard(ctx context.Context, workerID string) (*models.WorkerAnalytics, error) {
	rows, err := s.Bookings.StatusSummary(ctx, "workerId", workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise worker bookings: %w", err)
	}
	byStatus, total, earnings := tally(rows)

	completed, err := s.Bookings.List(ctx, models.BookingFilter{WorkerID: workerID, Status: models.BookingCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to list completed bookings: %w", err)
	}
	var pending float64
	for _, b := range completed {
		if b.PaymentStatus != models.PaymentPaid {
			pending += b.Amount
		}
	}

	summary, err := s.Reviews.Summary(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise reviews: %w", err)
	}

	out := &models.WorkerAnalytics{
		TotalBookings: total,
		ByStatus:      byStatus,
		Earnings:      earnings,
		PendingPayout: roundCents(pending),
		AverageRating: math.Round(summary.Average*10) / 10,
		ReviewCount:   summary.Count,
	}
	// Completion rate is over finished work: completed versus cancelled.
	decided := byStatus[models.BookingCompleted] + byStatus[models.BookingCancelled]
	if decided > 0 {
		out.CompletionRate = math.Round(float64(byStatus[models.BookingCompleted])/float64(decided)*1000) / 1000
	}
	return out, nil
}

func (s *DefaultAnalyticsService) UserDashboard(ctx context.Context, userID string) (*models.UserAnalytics, error) {
	rows, err := s.Bookings.StatusSummary(ctx, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise user bookings: %w", err)
	}
	byStatus, total, spent := tally(rows)

	written, err := s.Reviews.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	return &models.UserAnalytics{
		TotalBookings:  total,
		ByStatus:       byStatus,
		TotalSpent:     spent,
		ReviewsWritten: int(written),
	}, nil
}
