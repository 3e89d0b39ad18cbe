package models

import "time"

// Review is a client's rating of a worker for one completed booking.
// There is at most one review per booking.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	UserID    string    `bson:"userId" json:"userId"`
	WorkerID  string    `bson:"workerId" json:"workerId"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ReviewRequest is the submit payload.
type ReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=1000"`
}

// RatingSummary aggregates a worker's reviews.
type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}
