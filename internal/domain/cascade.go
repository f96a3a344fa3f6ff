package domain

import "context"

// CascadeDeletionRepository removes a catalog entity together with every
// record that references it, bottom-up (payments, then booking seats, then
// bookings, then showtimes, then the entity itself), inside one transaction.
// Each call returns the ids of the showtimes it deleted so the caller can
// drop their seat inventory state. On failure nothing is applied and
// ErrCascadeConflict is returned.
type CascadeDeletionRepository interface {
	DeleteShowtime(ctx context.Context, showtimeID int) ([]int, error)
	DeleteHall(ctx context.Context, hallID int) ([]int, error)
	DeleteMovie(ctx context.Context, movieID int) ([]int, error)
}
