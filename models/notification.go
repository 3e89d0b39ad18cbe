package models

// ReminderPayload is the body of a scheduled booking reminder task.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	WorkerID  string `json:"workerId"`
	StartsAt  string `json:"startsAt"`
	Address   string `json:"address"`
}
