package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/database/repository"
	"homeserve/models"
	"homeserve/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("reviews: failed to create indexes", zap.Error(err))
	}
	return repo
}

// upsertUpdate keeps id, owner and createdAt from the first submission.
func upsertUpdate(review *models.Review, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"rating":    review.Rating,
			"comment":   review.Comment,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"id":        review.ID,
			"bookingId": review.BookingID,
			"userId":    review.UserID,
			"workerId":  review.WorkerID,
			"createdAt": now,
		},
	}
}

func (r *MongoReviewRepo) UpsertByBooking(ctx context.Context, review *models.Review) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	proposedID := review.ID
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored models.Review
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"bookingId": review.BookingID}, upsertUpdate(review, time.Now()), opts).Decode(&stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Concurrent first submissions for the same booking; the loser retries as an update.
			return r.UpsertByBooking(ctx, review)
		}
		return false, fmt.Errorf("failed to upsert review for booking %s: %w", review.BookingID, err)
	}
	*review = stored
	return stored.ID == proposedID, nil
}

func (r *MongoReviewRepo) findOne(ctx context.Context, filter bson.M) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, filter).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoReviewRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"bookingId": bookingID})
}

func (r *MongoReviewRepo) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) ListByWorker(ctx context.Context, workerID string, page, limit int) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}
	return r.list(ctx, bson.M{"workerId": workerID}, opts)
}

func (r *MongoReviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return r.list(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *MongoReviewRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoReviewRepo) Summary(ctx context.Context, workerID string) (models.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"workerId": workerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.RatingSummary
	if err := cursor.All(ctx, &results); err != nil {
		return models.RatingSummary{}, fmt.Errorf("error decoding aggregation result: %w", err)
	}
	if len(results) == 0 {
		return models.RatingSummary{}, nil
	}
	return results[0], nil
}

func (r *MongoReviewRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}
