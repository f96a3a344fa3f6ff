package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type MockBookingRepo struct {
	CreateFunc                   func(ctx context.Context, booking *domain.Booking) error
	GetByIdFunc                  func(ctx context.Context, id int) (*domain.Booking, error)
	ConfirmFunc                  func(ctx context.Context, bookingID int, payment *domain.Payment) error
	CancelFunc                   func(ctx context.Context, bookingID int) error
	GetBookedSeatsByShowtimeFunc func(ctx context.Context, showtimeID int) ([]string, error)
	GetSummariesByUserIdFunc     func(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error)
	GetStalePendingIdsFunc       func(ctx context.Context, cutoff time.Time) ([]int, error)
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockBookingRepo) Confirm(ctx context.Context, bookingID int, payment *domain.Payment) error {
	return m.ConfirmFunc(ctx, bookingID, payment)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID int) error {
	return m.CancelFunc(ctx, bookingID)
}

func (m *MockBookingRepo) GetBookedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	return m.GetBookedSeatsByShowtimeFunc(ctx, showtimeID)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	return m.GetSummariesByUserIdFunc(ctx, userID, pagination)
}

func (m *MockBookingRepo) GetStalePendingIds(ctx context.Context, cutoff time.Time) ([]int, error) {
	return m.GetStalePendingIdsFunc(ctx, cutoff)
}
