package memoryRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"homeserve/database/repository"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/models"
)

// WorkerRepo is an in-memory WorkerRepository.
type WorkerRepo struct {
	mu      sync.RWMutex
	workers map[string]models.Worker
}

var _ workerRepo.WorkerRepository = (*WorkerRepo)(nil)

func NewWorkerRepo() *WorkerRepo {
	return &WorkerRepo{workers: make(map[string]models.Worker)}
}

func cloneWorker(w models.Worker) models.Worker {
	w.Skills = append([]string(nil), w.Skills...)
	w.Documents = append([]models.Document(nil), w.Documents...)
	return w
}

func (r *WorkerRepo) Create(_ context.Context, worker *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	worker.Email = strings.ToLower(worker.Email)
	if _, ok := r.workers[worker.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, w := range r.workers {
		if w.Email == worker.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	r.workers[worker.ID] = cloneWorker(*worker)
	return nil
}

func (r *WorkerRepo) GetByID(_ context.Context, id string) (*models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorker(w)
	return &w, nil
}

func (r *WorkerRepo) GetByEmail(_ context.Context, email string) (*models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, w := range r.workers {
		if w.Email == email {
			w = cloneWorker(w)
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *WorkerRepo) GetAll(_ context.Context) ([]models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workers := make([]models.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		w = cloneWorker(w)
		w.PasswordHash = ""
		w.TokenHash = ""
		workers = append(workers, w)
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].CreatedAt.After(workers[j].CreatedAt) })
	return workers, nil
}

func (r *WorkerRepo) Update(_ context.Context, worker *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workers[worker.ID]; !ok {
		return repository.ErrNotFound
	}
	worker.UpdatedAt = time.Now()
	r.workers[worker.ID] = cloneWorker(*worker)
	return nil
}

func (r *WorkerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workers, id)
	return nil
}

func matchesCriteria(w models.Worker, c models.WorkerSearchCriteria) bool {
	if !w.Verified || !w.EmailVerified {
		return false
	}
	if c.Category != "" && w.ServiceCategory != c.Category {
		return false
	}
	if c.City != "" && !strings.EqualFold(w.City, c.City) {
		return false
	}
	if c.MinRating > 0 && w.Rating < c.MinRating {
		return false
	}
	if c.AvailableOnly && !w.IsAvailable {
		return false
	}
	return true
}

func (r *WorkerRepo) Search(_ context.Context, c models.WorkerSearchCriteria) ([]models.Worker, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Worker{}
	for _, w := range r.workers {
		if matchesCriteria(w, c) {
			matched = append(matched, cloneWorker(w))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		if matched[i].ReviewCount != matched[j].ReviewCount {
			return matched[i].ReviewCount > matched[j].ReviewCount
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	return paginate(matched, c.Page, c.Limit), total, nil
}

func (r *WorkerRepo) AddDocument(_ context.Context, id string, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return repository.ErrNotFound
	}
	w = cloneWorker(w)
	w.Documents = append(w.Documents, doc)
	w.UpdatedAt = time.Now()
	r.workers[id] = w
	return nil
}

func (r *WorkerRepo) UpdateRating(_ context.Context, id string, summary models.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.Rating = summary.Average
	w.ReviewCount = summary.Count
	w.UpdatedAt = time.Now()
	r.workers[id] = w
	return nil
}

// paginate slices items for a 1-based page; limit <= 0 returns everything.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
