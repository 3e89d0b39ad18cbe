package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"homeserve/database/repository"
	reviewRepo "homeserve/database/repository/review"
	"homeserve/models"
)

// ReviewRepo is an in-memory ReviewRepository keyed by review id.
type ReviewRepo struct {
	mu      sync.RWMutex
	reviews map[string]models.Review
}

var _ reviewRepo.ReviewRepository = (*ReviewRepo)(nil)

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{reviews: make(map[string]models.Review)}
}

func (r *ReviewRepo) UpsertByBooking(_ context.Context, review *models.Review) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, existing := range r.reviews {
		if existing.BookingID != review.BookingID {
			continue
		}
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		existing.UpdatedAt = now
		r.reviews[id] = existing
		*review = existing
		return false, nil
	}

	review.CreatedAt = now
	review.UpdatedAt = now
	r.reviews[review.ID] = *review
	return true, nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepo) GetByBooking(_ context.Context, bookingID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rv := range r.reviews {
		if rv.BookingID == bookingID {
			return &rv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ReviewRepo) filter(keep func(models.Review) bool) []models.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Review{}
	for _, rv := range r.reviews {
		if keep(rv) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ReviewRepo) ListByWorker(_ context.Context, workerID string, page, limit int) ([]models.Review, error) {
	out := r.filter(func(rv models.Review) bool { return rv.WorkerID == workerID })
	return paginate(out, page, limit), nil
}

func (r *ReviewRepo) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	return r.filter(func(rv models.Review) bool { return rv.UserID == userID }), nil
}

func (r *ReviewRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *ReviewRepo) Summary(_ context.Context, workerID string) (models.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum, count int
	for _, rv := range r.reviews {
		if rv.WorkerID == workerID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{Average: float64(sum) / float64(count), Count: count}, nil
}

func (r *ReviewRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			n++
		}
	}
	return n, nil
}
