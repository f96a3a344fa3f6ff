package domain

import (
	"context"
	"time"
)

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
)

type SeatStatus struct {
	Label string
	Row   int
	Col   int
	State SeatState
}

// SeatMap is a point-in-time snapshot of every seat of a showtime, in
// row-major order.
type SeatMap struct {
	ShowtimeID int
	HallID     int
	HallName   string
	MovieTitle string
	Seats      []SeatStatus
}

// Hold is a time-bounded exclusive claim on a set of seats, correlated to the
// checkout attempt that created it by an opaque holder token.
type Hold struct {
	Token      string
	ShowtimeID int
	SeatLabels []string
	ExpiresAt  time.Time
}

// SeatInventory is the single source of truth for seat availability. All
// hold, release and booking transitions pass through it; a seat moving from
// Held to Booked is never observable as Available in between.
//
// AttemptHold is all-or-nothing: if any requested seat is not available the
// whole request fails with SeatUnavailableError and no state changes.
// ReleaseHold is idempotent. ConfirmHold fences the hold against expiry and
// returns it so the caller can persist the booked seats; it fails with
// ErrHoldExpired once the TTL has elapsed.
type SeatInventory interface {
	GetSeatMap(ctx context.Context, showtimeID int) (*SeatMap, error)
	AttemptHold(ctx context.Context, showtimeID int, seatLabels []string, token string, ttl time.Duration) error
	GetHold(ctx context.Context, token string) (*Hold, error)
	ConfirmHold(ctx context.Context, token string) (*Hold, error)
	ReleaseHold(ctx context.Context, token string) error
	ReclaimExpired(ctx context.Context, showtimeID int) error
	ActiveShowtimes(ctx context.Context) ([]int, error)
	PurgeShowtimes(ctx context.Context, showtimeIDs []int) error
}
