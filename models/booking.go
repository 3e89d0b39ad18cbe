package models

import "time"

// Booking statuses.
const (
	BookingPending    = "pending"
	BookingAccepted   = "accepted"
	BookingRejected   = "rejected"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
	BookingExpired    = "expired"
)

// Payment statuses.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// ActiveBookingStatuses hold a worker's time slot.
var ActiveBookingStatuses = []string{BookingPending, BookingAccepted, BookingInProgress}

// bookingTransitions lists the statuses reachable from each status.
var bookingTransitions = map[string][]string{
	BookingPending:    {BookingAccepted, BookingRejected, BookingCancelled, BookingExpired},
	BookingAccepted:   {BookingInProgress, BookingCompleted, BookingCancelled},
	BookingInProgress: {BookingCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsBookingStatus reports whether s is a known booking status.
func IsBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingAccepted, BookingRejected, BookingInProgress,
		BookingCompleted, BookingCancelled, BookingExpired:
		return true
	}
	return false
}

// Booking is a client's reservation of a worker for a time window on one day.
type Booking struct {
	ID              string     `bson:"id" json:"id"`
	UserID          string     `bson:"userId" json:"userId"`
	WorkerID        string     `bson:"workerId" json:"workerId"`
	ServiceCategory string     `bson:"serviceCategory" json:"serviceCategory"`
	Description     string     `bson:"description" json:"description,omitempty"`
	Address         string     `bson:"address" json:"address"`
	Date            string     `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start           int        `bson:"start" json:"start"` // minutes from midnight
	End             int        `bson:"end" json:"end"`     // minutes from midnight
	StartTime       string     `bson:"startTime" json:"startTime"`
	EndTime         string     `bson:"endTime" json:"endTime"`
	StartAt         time.Time  `bson:"startAt" json:"startAt"`
	HourlyRate      float64    `bson:"hourlyRate" json:"hourlyRate"`
	Amount          float64    `bson:"amount" json:"amount"`
	Status          string     `bson:"status" json:"status"`
	PaymentStatus   string     `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string     `bson:"paymentIntentId" json:"paymentIntentId,omitempty"`
	CancelReason    string     `bson:"cancelReason" json:"cancelReason,omitempty"`
	CancelledBy     string     `bson:"cancelledBy" json:"cancelledBy,omitempty"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports whether the booking's window intersects [start, end) on date.
func (b Booking) Overlaps(date string, start, end int) bool {
	return b.Date == date && b.Start < end && b.End > start
}

// BookingRequest is the client's create payload.
type BookingRequest struct {
	WorkerID    string `json:"workerId" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

// RescheduleRequest moves a booking to a new window.
type RescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	UserID   string
	WorkerID string
	Status   string
	Page     int
	Limit    int
}

// PaymentIntentResponse is returned to the client app to complete a card payment.
type PaymentIntentResponse struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// CancelRequest carries the optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// StatusUpdateRequest is the worker's status change payload.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}
