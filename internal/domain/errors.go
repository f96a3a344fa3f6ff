package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrHoldNotFound      = errors.New("hold not found or has expired")
	ErrHoldExpired       = errors.New("your seat selection has expired, please select your seats again")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("booking status does not allow this operation")
	ErrCascadeConflict   = errors.New("deletion could not be completed, no changes were applied")
)

// SeatUnavailableError reports which of the requested seats blocked a hold.
// No seat state changes when it is returned.
type SeatUnavailableError struct {
	ConflictingSeats []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat(s) not available: %s", strings.Join(e.ConflictingSeats, ", "))
}
