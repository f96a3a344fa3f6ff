package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create inserts the booking and its seat rows in one transaction. The
// unique index on (showtime_id, seat_label) is the durable backstop against
// double-selling; a violation surfaces as SeatUnavailableError.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (user_id, showtime_id, total_seats, total_amount, status, selected_seats, holder_token)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.ShowtimeID,
			booking.TotalSeats,
			booking.TotalAmount,
			booking.Status,
			booking.SeatLabels,
			booking.HolderToken).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.SeatLabels))
		for _, label := range booking.SeatLabels {
			rows = append(rows, []any{
				booking.ID,
				booking.ShowtimeID,
				label,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_label"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return &domain.SeatUnavailableError{ConflictingSeats: booking.SeatLabels}
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, showtime_id, total_seats, total_amount, status, selected_seats, holder_token, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.TotalSeats,
		&booking.TotalAmount,
		&booking.Status,
		&booking.SeatLabels,
		&booking.HolderToken,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	return &booking, nil
}

// Confirm moves a pending booking to confirmed and records its successful
// payment in the same transaction. The status guard in the WHERE clause
// rejects every other starting state.
func (p *PostgresBookingRepository) Confirm(ctx context.Context, bookingID int, payment *domain.Payment) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'confirmed', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`

		tag, err := tx.Exec(ctx, query, bookingID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrInvalidTransition
		}

		query = `
			INSERT INTO payments (booking_id, amount, payment_method, transaction_id, status, payment_date)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id, created_at
		`

		return tx.QueryRow(
			ctx,
			query,
			payment.BookingID,
			payment.Amount,
			payment.PaymentMethod,
			payment.TransactionID,
			payment.Status).Scan(&payment.ID, &payment.CreatedAt)
	})
}

// Cancel moves a pending or confirmed booking to cancelled and deletes its
// seat rows, freeing the seats for other buyers.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, bookingID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND status IN ('pending', 'confirmed')
		`

		tag, err := tx.Exec(ctx, query, bookingID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrInvalidTransition
		}

		_, err = tx.Exec(ctx, `DELETE FROM booking_seats WHERE booking_id = $1`, bookingID)

		return err
	})
}

// GetBookedSeatsByShowtime lists the seat labels of every non-cancelled
// booking for the showtime. Cancelled bookings have no seat rows.
func (p *PostgresBookingRepository) GetBookedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	query := `
		SELECT bs.seat_label
		FROM booking_seats bs
		JOIN bookings b ON bs.booking_id = b.id
		WHERE bs.showtime_id = $1 AND b.status <> 'cancelled'
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatLabels := make([]string, 0)

	for rows.Next() {
		var label string

		if err = rows.Scan(&label); err != nil {
			return nil, err
		}

		seatLabels = append(seatLabels, label)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatLabels, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			m.title,
			h.name,
			s.id,
			s.start_time,
			b.total_seats,
			b.total_amount,
			b.status,
			b.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.MovieTitle,
			&summary.HallName,
			&summary.ShowtimeID,
			&summary.StartTime,
			&summary.TotalSeats,
			&summary.TotalAmount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) GetStalePendingIds(ctx context.Context, cutoff time.Time) ([]int, error) {
	query := `
		SELECT id
		FROM bookings
		WHERE status = 'pending' AND created_at < $1
	`

	rows, err := p.db.Query(ctx, query, cutoff)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
