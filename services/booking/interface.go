package booking

import (
	"context"
	"time"

	bookingRepo "homeserve/database/repository/booking"
	userRepo "homeserve/database/repository/user"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/models"
	"homeserve/services/analytics"
	"homeserve/services/notification"
	"homeserve/services/tasks"
)

// BookingService defines the booking lifecycle for both apps.
type BookingService interface {
	// Client app
	CreateBooking(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID, status string, page, limit int) ([]models.Booking, error)
	GetUserBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID, reason string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, userID, bookingID string, req models.RescheduleRequest) (*models.Booking, error)
	CreatePaymentIntent(ctx context.Context, userID, bookingID string) (*models.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, userID, bookingID string) (*models.Booking, error)

	// Worker app
	ListWorkerBookings(ctx context.Context, workerID, status string, page, limit int) ([]models.Booking, error)
	GetWorkerBooking(ctx context.Context, workerID, bookingID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, workerID, bookingID string, req models.StatusUpdateRequest) (*models.Booking, error)

	// Invoices; role is the requesting account's role.
	Invoice(ctx context.Context, role, accountID, bookingID string) ([]byte, error)

	// CancelForAccount cancels the open bookings of an account being
	// deleted. role is the deleted account's role.
	CancelForAccount(ctx context.Context, role, accountID string) (int, error)

	// Background jobs
	ExpireStale(ctx context.Context) (int, error)
	SendReminder(ctx context.Context, p models.ReminderPayload) error

	// Admin
	ListAll(ctx context.Context, status string, page, limit int) ([]models.Booking, error)
}

// Deps wires the collaborators of DefaultBookingService.
type Deps struct {
	Bookings  bookingRepo.BookingRepository
	Users     userRepo.UserRepository
	Workers   workerRepo.WorkerRepository
	Notifier  notification.NotificationService
	Mailer    notification.Mailer
	Reminders tasks.ReminderScheduler
	Payments  PaymentProvider
	Metrics   *analytics.Metrics
	Location  *time.Location
	Currency  string
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Deps
	now func() time.Time
}

func NewBookingService(d Deps) *DefaultBookingService {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Currency == "" {
		d.Currency = "usd"
	}
	if d.Reminders == nil {
		d.Reminders = tasks.NoopReminderScheduler{}
	}
	if d.Mailer == nil {
		d.Mailer = notification.LogMailer{}
	}
	return &DefaultBookingService{Deps: d, now: time.Now}
}
