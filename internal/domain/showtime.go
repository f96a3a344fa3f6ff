package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Showtime schedules a movie in a hall at a fixed ticket price. The price on
// this row is the only source bookings are priced from.
type Showtime struct {
	ID          int
	MovieID     int
	HallID      int
	ShowDate    time.Time
	StartTime   time.Time
	EndTime     time.Time
	TicketPrice decimal.Decimal
	MovieTitle  string
	HallName    string
}

func (s Showtime) HasStarted(now time.Time) bool {
	return !now.Before(s.StartTime)
}

type ShowtimeRepository interface {
	GetById(ctx context.Context, id int) (*Showtime, error)
	GetUpcomingByMovieId(ctx context.Context, movieID int, from time.Time) ([]Showtime, error)
}
