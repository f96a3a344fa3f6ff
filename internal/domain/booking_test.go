package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewBookingPricesFromShowtime(t *testing.T) {
	showtime := &Showtime{ID: 1, TicketPrice: decimal.RequireFromString("12.50")}

	booking, err := NewBooking(7, showtime, []string{"A1", "A2", "B3"})
	if err != nil {
		t.Fatal(err)
	}

	want := decimal.RequireFromString("37.50")
	if !booking.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s", booking.TotalAmount, want)
	}

	if booking.TotalSeats != 3 {
		t.Errorf("TotalSeats = %d, want 3", booking.TotalSeats)
	}

	if booking.Status != BookingPending {
		t.Errorf("Status = %s, want %s", booking.Status, BookingPending)
	}
}

func TestNewBookingRequiresSeats(t *testing.T) {
	showtime := &Showtime{ID: 1, TicketPrice: decimal.RequireFromString("12.50")}

	if _, err := NewBooking(7, showtime, nil); err == nil {
		t.Error("expected an error for a booking without seats")
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingConfirmed, BookingConfirmed, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
	}

	for _, tt := range tests {
		booking := &Booking{Status: tt.from}

		if got := booking.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanBeCancelledBy(t *testing.T) {
	booking := &Booking{ID: 3, UserID: 7}

	tests := []struct {
		name  string
		actor *User
		want  bool
	}{
		{"owner", &User{ID: 7}, true},
		{"admin", &User{ID: 1, IsAdmin: true}, true},
		{"stranger", &User{ID: 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := booking.CanBeCancelledBy(tt.actor); got != tt.want {
				t.Errorf("CanBeCancelledBy = %v, want %v", got, tt.want)
			}

			if got := booking.CanBeViewedBy(tt.actor); got != tt.want {
				t.Errorf("CanBeViewedBy = %v, want %v", got, tt.want)
			}
		})
	}
}
