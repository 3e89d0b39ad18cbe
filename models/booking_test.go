package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingPending, BookingAccepted))
	assert.True(t, CanTransition(BookingAccepted, BookingInProgress))
	assert.True(t, CanTransition(BookingInProgress, BookingCompleted))
	assert.True(t, CanTransition(BookingAccepted, BookingCompleted))

	assert.False(t, CanTransition(BookingPending, BookingCompleted))
	assert.False(t, CanTransition(BookingInProgress, BookingCancelled))
	assert.False(t, CanTransition(BookingCompleted, BookingPending))
	assert.False(t, CanTransition(BookingRejected, BookingAccepted))
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{Date: "2030-01-10", Start: 9 * 60, End: 11 * 60}

	assert.True(t, b.Overlaps("2030-01-10", 10*60, 12*60))
	assert.True(t, b.Overlaps("2030-01-10", 8*60, 9*60+1))
	assert.True(t, b.Overlaps("2030-01-10", 9*60+30, 10*60))

	// Touching windows do not overlap.
	assert.False(t, b.Overlaps("2030-01-10", 11*60, 12*60))
	assert.False(t, b.Overlaps("2030-01-10", 8*60, 9*60))
	assert.False(t, b.Overlaps("2030-01-11", 10*60, 12*60))
}

func TestWorkerPublicHidesContact(t *testing.T) {
	w := Worker{ID: "w1", Name: "Ann", Email: "ann@example.com", PhoneNumber: "+100", Rating: 4.5}
	p := w.Public()
	assert.Equal(t, "w1", p.ID)
	assert.Equal(t, 4.5, p.Rating)
}
