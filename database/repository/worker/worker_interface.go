package workerRepo

import (
	"context"

	"homeserve/models"
)

// WorkerRepository defines methods for worker account data access.
type WorkerRepository interface {
	Create(ctx context.Context, worker *models.Worker) error
	GetByID(ctx context.Context, id string) (*models.Worker, error)
	GetByEmail(ctx context.Context, email string) (*models.Worker, error)
	GetAll(ctx context.Context) ([]models.Worker, error)
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id string) error
	// Search lists verified workers matching the criteria, best rated first,
	// together with the total number of matches.
	Search(ctx context.Context, criteria models.WorkerSearchCriteria) ([]models.Worker, int64, error)
	// AddDocument appends a verification document.
	AddDocument(ctx context.Context, id string, doc models.Document) error
	// UpdateRating stores the recomputed review aggregate.
	UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error
}
