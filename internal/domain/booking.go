package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the durable record of a reservation. Its status only ever moves
// forward: Pending to Confirmed or Cancelled, Confirmed to Cancelled,
// Cancelled is terminal.
type Booking struct {
	ID          int
	UserID      int
	ShowtimeID  int
	SeatLabels  []string
	TotalSeats  int
	TotalAmount decimal.Decimal
	Status      BookingStatus

	// HolderToken is the hold the booking was created from. It lets a
	// cancellation of a still-pending booking release the live hold instead
	// of waiting out the TTL.
	HolderToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking prices the booking from the showtime's ticket price. The total
// is always computed here, never accepted from a client.
func NewBooking(userID int, showtime *Showtime, seatLabels []string) (*Booking, error) {
	if len(seatLabels) == 0 {
		return nil, errors.New("a booking requires at least one seat")
	}

	total := showtime.TicketPrice.Mul(decimal.NewFromInt(int64(len(seatLabels))))

	return &Booking{
		UserID:      userID,
		ShowtimeID:  showtime.ID,
		SeatLabels:  seatLabels,
		TotalSeats:  len(seatLabels),
		TotalAmount: total,
		Status:      BookingPending,
	}, nil
}

func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	default:
		return false
	}
}

// CanBeCancelledBy enforces the ownership rule: only the booking's owner or
// an administrator may cancel it.
func (b *Booking) CanBeCancelledBy(actor *User) bool {
	return actor.IsAdmin || actor.ID == b.UserID
}

// CanBeViewedBy follows the same ownership rule as cancellation.
func (b *Booking) CanBeViewedBy(actor *User) bool {
	return b.CanBeCancelledBy(actor)
}

type BookingSummary struct {
	BookingID   int
	MovieTitle  string
	HallName    string
	ShowtimeID  int
	StartTime   time.Time
	TotalSeats  int
	TotalAmount decimal.Decimal
	Status      BookingStatus
	CreatedAt   time.Time
}

// BookingRepository persists bookings and guards their status transitions at
// the SQL level: Confirm and Cancel match on the current status, and zero
// affected rows surfaces as ErrInvalidTransition.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id int) (*Booking, error)

	// Confirm moves a pending booking to confirmed and records its successful
	// payment in the same transaction.
	Confirm(ctx context.Context, bookingID int, payment *Payment) error

	// Cancel moves a pending or confirmed booking to cancelled and frees its
	// booked seat rows.
	Cancel(ctx context.Context, bookingID int) error

	GetBookedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)

	// GetStalePendingIds lists pending bookings created before the cutoff,
	// whose holds have necessarily expired. The sweeper cancels them.
	GetStalePendingIds(ctx context.Context, cutoff time.Time) ([]int, error)
}
