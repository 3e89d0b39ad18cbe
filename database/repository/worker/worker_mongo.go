package workerRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeserve/database/repository"
	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoWorkerRepo implements WorkerRepository using MongoDB.
type MongoWorkerRepo struct {
	coll *mongo.Collection
}

// NewMongoWorkerRepo creates a new instance of WorkerRepository using MongoDB.
func NewMongoWorkerRepo(db *mongo.Database) WorkerRepository {
	repo := &MongoWorkerRepo{coll: db.Collection("workers")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("workers: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoWorkerRepo) Create(ctx context.Context, worker *models.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	worker.Email = strings.ToLower(worker.Email)
	worker.CreatedAt = now
	worker.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, worker); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (r *MongoWorkerRepo) findOne(ctx context.Context, filter bson.M) (*models.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var worker models.Worker
	if err := r.coll.FindOne(ctx, filter).Decode(&worker); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch worker: %w", err)
	}
	return &worker, nil
}

func (r *MongoWorkerRepo) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoWorkerRepo) GetByEmail(ctx context.Context, email string) (*models.Worker, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoWorkerRepo) GetAll(ctx context.Context) ([]models.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"passwordHash": 0, "tokenHash": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workers: %w", err)
	}
	defer cursor.Close(ctx)

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, nil
}

func (r *MongoWorkerRepo) Update(ctx context.Context, worker *models.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	worker.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": worker.ID}, bson.M{"$set": worker})
	if err != nil {
		return fmt.Errorf("failed to update worker with id %s: %w", worker.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoWorkerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete worker with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoWorkerRepo) AddDocument(ctx context.Context, id string, doc models.Document) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add document for worker %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoWorkerRepo) UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":      summary.Average,
		"reviewCount": summary.Count,
		"updatedAt":   time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update rating for worker %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
