package memoryRepo

import (
	"context"
	"testing"
	"time"

	"homeserve/database/repository"
	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepoRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Email: "Ann@Example.com"}))
	err := repo.Create(ctx, &models.User{ID: "u2", Email: "ann@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkerRepoSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkerRepo()
	workers := []models.Worker{
		{ID: "w1", Email: "a@x.io", ServiceCategory: "plumbing", City: "Nairobi", Verified: true, EmailVerified: true, IsAvailable: true, Rating: 4.2},
		{ID: "w2", Email: "b@x.io", ServiceCategory: "plumbing", City: "nairobi", Verified: true, EmailVerified: true, IsAvailable: false, Rating: 4.9},
		{ID: "w3", Email: "c@x.io", ServiceCategory: "plumbing", City: "Nairobi", Verified: false, EmailVerified: true, Rating: 5},
		{ID: "w4", Email: "d@x.io", ServiceCategory: "cleaning", City: "Nairobi", Verified: true, EmailVerified: true, Rating: 3},
	}
	for i := range workers {
		require.NoError(t, repo.Create(ctx, &workers[i]))
	}

	got, total, err := repo.Search(ctx, models.WorkerSearchCriteria{Category: "plumbing", City: "NAIROBI", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "w2", got[0].ID)
	assert.Equal(t, "w1", got[1].ID)

	got, total, err = repo.Search(ctx, models.WorkerSearchCriteria{Category: "plumbing", AvailableOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "w1", got[0].ID)

	got, total, err = repo.Search(ctx, models.WorkerSearchCriteria{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, got, 1)
}

func TestBookingRepoOverlapAndExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b1", WorkerID: "w1", UserID: "u1", Date: "2030-01-01", Start: 600, End: 660, Status: models.BookingAccepted, StartAt: past}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b2", WorkerID: "w1", UserID: "u2", Date: "2030-01-01", Start: 700, End: 760, Status: models.BookingPending, StartAt: past}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b3", WorkerID: "w1", UserID: "u3", Date: "2030-01-01", Start: 630, End: 690, Status: models.BookingCancelled}))

	got, err := repo.FindOverlapping(ctx, bookingRepo.OverlapQuery{WorkerID: "w1", Date: "2030-01-01", Start: 650, End: 710, Statuses: models.ActiveBookingStatuses})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.FindOverlapping(ctx, bookingRepo.OverlapQuery{WorkerID: "w1", Date: "2030-01-01", Start: 660, End: 700, Statuses: models.ActiveBookingStatuses})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.FindOverlapping(ctx, bookingRepo.OverlapQuery{WorkerID: "w1", Date: "2030-01-01", Start: 600, End: 660, Statuses: models.ActiveBookingStatuses, ExcludeID: "b1"})
	require.NoError(t, err)
	assert.Empty(t, got)

	expired, err := repo.ExpirePending(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "b2", expired[0].ID)

	b2, err := repo.GetByID(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, models.BookingExpired, b2.Status)
}

func TestBookingRepoStatusSummary(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b1", WorkerID: "w1", Status: models.BookingCompleted, Amount: 30}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b2", WorkerID: "w1", Status: models.BookingCompleted, Amount: 20}))
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b3", WorkerID: "w1", Status: models.BookingPending, Amount: 10}))

	rows, err := repo.StatusSummary(ctx, "workerId", "w1")
	require.NoError(t, err)
	assert.Equal(t, []models.StatusCount{
		{Status: models.BookingCompleted, Count: 2, Amount: 50},
		{Status: models.BookingPending, Count: 1, Amount: 10},
	}, rows)

	_, err = repo.StatusSummary(ctx, "status", "x")
	assert.Error(t, err)
}

func TestReviewRepoUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepo()

	first := &models.Review{ID: "r1", BookingID: "b1", UserID: "u1", WorkerID: "w1", Rating: 3}
	created, err := repo.UpsertByBooking(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &models.Review{ID: "r2", BookingID: "b1", UserID: "u1", WorkerID: "w1", Rating: 5, Comment: "better"}
	created, err = repo.UpsertByBooking(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "r1", second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 5, second.Rating)

	summary, err := repo.Summary(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Average: 5, Count: 1}, summary)
}
