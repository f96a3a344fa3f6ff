package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records the outcome of exactly one charge attempt for a booking.
// A booking reaches Confirmed only with an associated success payment.
type Payment struct {
	ID            int
	BookingID     int
	Amount        decimal.Decimal
	PaymentMethod string
	TransactionID *string
	Status        PaymentStatus
	ErrorMsg      *string
	PaymentDate   *time.Time
	CreatedAt     time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByBookingId(ctx context.Context, bookingID int) (*Payment, error)
}

type ChargeRequest struct {
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Reference     string
	Description   string
}

type ChargeResult struct {
	TransactionID string
	Succeeded     bool
	FailureReason string
}

// PaymentGateway authorizes a charge with an external processor. Charge is
// the one call in the checkout flow expected to block on network latency, so
// callers must never hold inventory state locked across it.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
