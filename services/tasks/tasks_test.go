package tasks

import (
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderTaskRoundTrip(t *testing.T) {
	payload := models.ReminderPayload{BookingID: "b1", UserID: "u1", WorkerID: "w1", StartsAt: "2030-01-01T10:00:00Z"}
	task, opts, err := NewReminderTask(payload, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TypeSendReminder, task.Type())
	assert.Len(t, opts, 4)

	got, err := ParseReminderTask(task)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "reminder:b1", ReminderTaskID("b1"))
}

func TestFireTime(t *testing.T) {
	now := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

	at, ok := fireTime(now.Add(3*time.Hour), now, time.Hour)
	assert.True(t, ok)
	assert.Equal(t, now.Add(2*time.Hour), at)

	at, ok = fireTime(now.Add(30*time.Minute), now, time.Hour)
	assert.True(t, ok)
	assert.Equal(t, now, at)

	_, ok = fireTime(now.Add(-time.Minute), now, time.Hour)
	assert.False(t, ok)
}
