package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT s.id, s.movie_id, s.hall_id, s.show_date, s.start_time, s.end_time, s.ticket_price, m.title, h.name
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.HallID,
		&showtime.ShowDate,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.TicketPrice,
		&showtime.MovieTitle,
		&showtime.HallName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) GetUpcomingByMovieId(
	ctx context.Context,
	movieID int,
	from time.Time) ([]domain.Showtime, error) {

	query := `
		SELECT s.id, s.movie_id, s.hall_id, s.show_date, s.start_time, s.end_time, s.ticket_price, m.title, h.name
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.movie_id = $1 AND s.start_time >= $2
		ORDER BY s.start_time
	`

	rows, err := p.db.Query(ctx, query, movieID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.Showtime, 0)

	for rows.Next() {
		var showtime domain.Showtime

		err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.HallID,
			&showtime.ShowDate,
			&showtime.StartTime,
			&showtime.EndTime,
			&showtime.TicketPrice,
			&showtime.MovieTitle,
			&showtime.HallName,
		)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}
