package booking

import (
	"context"
	"fmt"
	"math"

	"homeserve/models"
	"homeserve/services/apperr"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Intent is the subset of a payment intent the booking flow needs.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	BookingID    string
}

// PaymentProvider creates and reads card payment intents.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, bookingID string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// StripePayments implements PaymentProvider with Stripe PaymentIntents.
type StripePayments struct {
	client *paymentintent.Client
}

func NewStripePayments(key string) *StripePayments {
	return &StripePayments{client: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}}
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		BookingID:    pi.Metadata["bookingId"],
	}
}

func (p *StripePayments) CreateIntent(ctx context.Context, amountCents int64, currency, bookingID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingId", bookingID)
	params.SetIdempotencyKey("booking-" + bookingID)
	pi, err := p.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (p *StripePayments) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.client.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to fetch payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (s *DefaultBookingService) payable(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	if s.Payments == nil {
		return nil, apperr.Conflict("payments_disabled", "card payments are not configured")
	}
	b, err := s.getForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingCompleted {
		return nil, apperr.Conflict("not_payable", "only completed bookings can be paid")
	}
	return b, nil
}

// CreatePaymentIntent starts a card payment for a completed unpaid booking.
func (s *DefaultBookingService) CreatePaymentIntent(ctx context.Context, userID, bookingID string) (*models.PaymentIntentResponse, error) {
	b, err := s.payable(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == models.PaymentPaid {
		return nil, apperr.Conflict("already_paid", "booking is already paid")
	}

	intent, err := s.Payments.CreateIntent(ctx, int64(math.Round(b.Amount*100)), s.Currency, b.ID)
	if err != nil {
		return nil, err
	}
	b.PaymentIntentID = intent.ID
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to store payment intent: %w", err)
	}
	return &models.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          b.Amount,
		Currency:        s.Currency,
	}, nil
}

// ConfirmPayment checks the intent with the provider and marks the booking paid.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.payable(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == models.PaymentPaid {
		return b, nil
	}
	if b.PaymentIntentID == "" {
		return nil, apperr.Conflict("payment_missing", "no payment has been started for this booking")
	}

	intent, err := s.Payments.GetIntent(ctx, b.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.BookingID != b.ID {
		return nil, apperr.Conflict("payment_mismatch", "payment does not belong to this booking")
	}
	if intent.Status != string(stripe.PaymentIntentStatusSucceeded) {
		return nil, apperr.Conflict("payment_incomplete", "payment status is %s", intent.Status)
	}

	b.PaymentStatus = models.PaymentPaid
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	s.pushWorker(ctx, b, "Payment received", fmt.Sprintf("%s paid for %s", money(s.Currency, b.Amount), b.Date))
	return b, nil
}
