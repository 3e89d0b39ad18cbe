package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"homeserve/database/repository"
	bookingRepo "homeserve/database/repository/booking"
	"homeserve/models"
)

// BookingRepo is an in-memory BookingRepository.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *BookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepo) List(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.WorkerID != "" && b.WorkerID != f.WorkerID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return paginate(out, f.Page, f.Limit), nil
}

func containsStatus(statuses []string, s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (r *BookingRepo) FindOverlapping(_ context.Context, q bookingRepo.OverlapQuery) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if q.WorkerID != "" && b.WorkerID != q.WorkerID {
			continue
		}
		if q.UserID != "" && b.UserID != q.UserID {
			continue
		}
		if q.ExcludeID != "" && b.ID == q.ExcludeID {
			continue
		}
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, b.Status) {
			continue
		}
		if b.Overlaps(q.Date, q.Start, q.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BookingRepo) StatusSummary(_ context.Context, field, id string) ([]models.StatusCount, error) {
	if field != "userId" && field != "workerId" {
		return nil, fmt.Errorf("unsupported summary field %q", field)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := map[string]*models.StatusCount{}
	for _, b := range r.bookings {
		owner := b.UserID
		if field == "workerId" {
			owner = b.WorkerID
		}
		if owner != id {
			continue
		}
		row, ok := byStatus[b.Status]
		if !ok {
			row = &models.StatusCount{Status: b.Status}
			byStatus[b.Status] = row
		}
		row.Count++
		row.Amount += b.Amount
	}

	out := make([]models.StatusCount, 0, len(byStatus))
	for _, row := range byStatus {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *BookingRepo) ExpirePending(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []models.Booking
	now := time.Now()
	for id, b := range r.bookings {
		if b.Status != models.BookingPending || !b.StartAt.Before(cutoff) {
			continue
		}
		b.Status = models.BookingExpired
		b.UpdatedAt = now
		r.bookings[id] = b
		expired = append(expired, b)
	}
	return expired, nil
}
