package tasks

import (
	"encoding/json"
	"time"

	"homeserve/models"

	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeSendReminder   = "reminder:send"
	TypeExpireBookings = "booking:expire"
)

// QueueDefault is the asynq queue every task goes to.
const QueueDefault = "default"

// ReminderTaskID is stable per booking so the reminder can be deleted.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

func ParseReminderTask(t *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}

func NewExpireBookingsTask() *asynq.Task {
	return asynq.NewTask(TypeExpireBookings, nil)
}
