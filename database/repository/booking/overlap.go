package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// overlapFilter matches bookings on the same date whose window intersects
// [q.Start, q.End). Touching windows do not overlap.
func overlapFilter(q OverlapQuery) bson.M {
	filter := bson.M{
		"date":  q.Date,
		"start": bson.M{"$lt": q.End},
		"end":   bson.M{"$gt": q.Start},
	}
	if q.WorkerID != "" {
		filter["workerId"] = q.WorkerID
	}
	if q.UserID != "" {
		filter["userId"] = q.UserID
	}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}
	if q.ExcludeID != "" {
		filter["id"] = bson.M{"$ne": q.ExcludeID}
	}
	return filter
}

func (r *MongoBookingRepo) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, overlapFilter(q))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

// StatusSummary counts bookings and sums amounts per status.
func (r *MongoBookingRepo) StatusSummary(ctx context.Context, field, id string) ([]models.StatusCount, error) {
	if field != "userId" && field != "workerId" {
		return nil, fmt.Errorf("unsupported summary field %q", field)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: id}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.StatusCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding aggregation result: %w", err)
	}
	return results, nil
}

// ExpirePending flips stale pending bookings to expired and returns the
// ones it changed. Each booking is updated on its own with the pending
// status in the filter, so one accepted in between is neither changed nor
// returned.
func (r *MongoBookingRepo) ExpirePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	filter := bson.M{
		"status":  models.BookingPending,
		"startAt": bson.M{"$lt": cutoff},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find stale bookings: %w", err)
	}
	var stale []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return nil, fmt.Errorf("failed to decode stale bookings: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var expired []models.Booking
	for _, b := range stale {
		update := bson.M{"$set": bson.M{"status": models.BookingExpired, "updatedAt": time.Now()}}
		var updated models.Booking
		err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": b.ID, "status": models.BookingPending}, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("failed to expire booking %s: %w", b.ID, err)
		}
		expired = append(expired, updated)
	}
	return expired, nil
}
