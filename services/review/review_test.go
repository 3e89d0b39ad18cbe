package review

import (
	"context"
	"errors"
	"testing"
	"time"

	memoryRepo "homeserve/database/repository/memory"
	"homeserve/models"
	"homeserve/services/analytics"
	"homeserve/services/apperr"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *DefaultReviewService
	bookings *memoryRepo.BookingRepo
	workers  *memoryRepo.WorkerRepo
	metrics  *analytics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: memoryRepo.NewBookingRepo(),
		workers:  memoryRepo.NewWorkerRepo(),
		metrics:  analytics.NewMetrics(),
	}
	require.NoError(t, f.workers.Create(context.Background(), &models.Worker{ID: "w1", Email: "w1@example.com", Verified: true}))
	f.svc = NewReviewService(memoryRepo.NewReviewRepo(), f.bookings, f.workers, f.metrics)
	return f
}

func (f *fixture) booking(t *testing.T, id, userID, status string) {
	t.Helper()
	require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
		ID: id, UserID: userID, WorkerID: "w1", Status: status,
		Date: "2030-03-02", Start: 540, End: 600, StartAt: time.Date(2030, 3, 2, 9, 0, 0, 0, time.UTC),
	}))
}

func (f *fixture) worker(t *testing.T) *models.Worker {
	t.Helper()
	w, err := f.workers.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	return w
}

func TestSubmitUpsertsByBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, "b1", "u1", models.BookingCompleted)

	first, created, err := f.svc.Submit(ctx, "u1", models.ReviewRequest{BookingID: "b1", Rating: 3, Comment: " ok "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ok", first.Comment)
	assert.Equal(t, 3.0, f.worker(t).Rating)

	second, created, err := f.svc.Submit(ctx, "u1", models.ReviewRequest{BookingID: "b1", Rating: 5})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 5, second.Rating)

	w := f.worker(t)
	assert.Equal(t, 5.0, w.Rating)
	assert.Equal(t, 1, w.ReviewCount)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReviewsSubmitted.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReviewsSubmitted.WithLabelValues("updated")))
}

func TestSubmitRequiresOwnedCompletedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, "b1", "u1", models.BookingCompleted)
	f.booking(t, "b2", "u1", models.BookingAccepted)

	_, _, err := f.svc.Submit(ctx, "u2", models.ReviewRequest{BookingID: "b1", Rating: 4})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, _, err = f.svc.Submit(ctx, "u1", models.ReviewRequest{BookingID: "b2", Rating: 4})
	var ce *apperr.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "not_reviewable", ce.Code)

	_, _, err = f.svc.Submit(ctx, "u1", models.ReviewRequest{BookingID: "b1", Rating: 6})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteRecomputesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, "b1", "u1", models.BookingCompleted)
	f.booking(t, "b2", "u2", models.BookingCompleted)

	r1, _, err := f.svc.Submit(ctx, "u1", models.ReviewRequest{BookingID: "b1", Rating: 2})
	require.NoError(t, err)
	_, _, err = f.svc.Submit(ctx, "u2", models.ReviewRequest{BookingID: "b2", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, f.worker(t).Rating)

	assert.ErrorIs(t, f.svc.Delete(ctx, "u2", r1.ID), apperr.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, "u1", r1.ID))

	w := f.worker(t)
	assert.Equal(t, 5.0, w.Rating)
	assert.Equal(t, 1, w.ReviewCount)

	mine, err := f.svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = f.svc.GetByBooking(ctx, "u1", "b2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	forWorker, err := f.svc.ListForWorker(ctx, "w1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, forWorker, 1)
}
