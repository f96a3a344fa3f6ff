package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// PostgresCascadeRepository deletes catalog entities and everything that
// references them inside a single transaction. The schema's RESTRICT foreign
// keys make the bottom-up order mandatory: payments, then booking seats, then
// bookings, then showtimes, then the hall or movie row.
type PostgresCascadeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCascadeRepository(db *pgxpool.Pool) *PostgresCascadeRepository {
	return &PostgresCascadeRepository{
		db: db,
	}
}

func (p *PostgresCascadeRepository) DeleteShowtime(ctx context.Context, showtimeID int) ([]int, error) {
	var deleted []int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		exists, err := rowExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrRecordNotFound
		}

		err = deleteShowtimesInTx(ctx, tx, []int{showtimeID})
		if err != nil {
			return err
		}

		deleted = []int{showtimeID}

		return nil
	})

	return deleted, wrapCascadeErr(err)
}

func (p *PostgresCascadeRepository) DeleteHall(ctx context.Context, hallID int) ([]int, error) {
	var deleted []int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		exists, err := rowExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM halls WHERE id = $1)`, hallID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrRecordNotFound
		}

		showtimeIDs, err := collectIds(ctx, tx, `SELECT id FROM showtimes WHERE hall_id = $1`, hallID)
		if err != nil {
			return err
		}

		err = deleteShowtimesInTx(ctx, tx, showtimeIDs)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM halls WHERE id = $1`, hallID)
		if err != nil {
			return err
		}

		deleted = showtimeIDs

		return nil
	})

	return deleted, wrapCascadeErr(err)
}

func (p *PostgresCascadeRepository) DeleteMovie(ctx context.Context, movieID int) ([]int, error) {
	var deleted []int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		exists, err := rowExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)`, movieID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrRecordNotFound
		}

		showtimeIDs, err := collectIds(ctx, tx, `SELECT id FROM showtimes WHERE movie_id = $1`, movieID)
		if err != nil {
			return err
		}

		err = deleteShowtimesInTx(ctx, tx, showtimeIDs)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID)
		if err != nil {
			return err
		}

		deleted = showtimeIDs

		return nil
	})

	return deleted, wrapCascadeErr(err)
}

// deleteShowtimesInTx removes every record hanging off the given showtimes,
// dependents first, then the showtime rows themselves.
func deleteShowtimesInTx(ctx context.Context, tx pgx.Tx, showtimeIDs []int) error {
	if len(showtimeIDs) == 0 {
		return nil
	}

	statements := []string{
		`DELETE FROM payments
		 WHERE booking_id IN (SELECT id FROM bookings WHERE showtime_id = ANY($1))`,
		`DELETE FROM booking_seats WHERE showtime_id = ANY($1)`,
		`DELETE FROM bookings WHERE showtime_id = ANY($1)`,
		`DELETE FROM showtimes WHERE id = ANY($1)`,
	}

	for _, stmt := range statements {
		_, err := tx.Exec(ctx, stmt, showtimeIDs)
		if err != nil {
			return err
		}
	}

	return nil
}

func rowExists(ctx context.Context, tx pgx.Tx, query string, arg any) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, query, arg).Scan(&exists)
	return exists, err
}

func collectIds(ctx context.Context, tx pgx.Tx, query string, arg any) ([]int, error) {
	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)

	for rows.Next() {
		var id int

		if err = rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// wrapCascadeErr keeps not-found intact and maps everything else that broke
// the transaction to the cascade conflict the admin sees.
func wrapCascadeErr(err error) error {
	if err == nil || errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}

	return errors.Join(domain.ErrCascadeConflict, err)
}
