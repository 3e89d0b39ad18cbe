package workerRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchFilter builds the catalog query. Only vetted, email-confirmed workers
// are listed.
func searchFilter(c models.WorkerSearchCriteria) bson.M {
	filter := bson.M{
		"verified":      true,
		"emailVerified": true,
	}
	if c.Category != "" {
		filter["serviceCategory"] = c.Category
	}
	if c.City != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c.City) + "$", Options: "i"}
	}
	if c.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": c.MinRating}
	}
	if c.AvailableOnly {
		filter["isAvailable"] = true
	}
	return filter
}

func (r *MongoWorkerRepo) Search(ctx context.Context, c models.WorkerSearchCriteria) ([]models.Worker, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := searchFilter(c)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count workers: %w", err)
	}

	opts := options.Find().
		SetProjection(bson.M{"passwordHash": 0, "tokenHash": 0, "fcmToken": 0, "documents": 0}).
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "reviewCount", Value: -1}}).
		SetSkip(int64((c.Page - 1) * c.Limit)).
		SetLimit(int64(c.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search workers: %w", err)
	}
	defer cursor.Close(ctx)

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, total, nil
}
