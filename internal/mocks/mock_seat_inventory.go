package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type MockSeatInventory struct {
	GetSeatMapFunc      func(ctx context.Context, showtimeID int) (*domain.SeatMap, error)
	AttemptHoldFunc     func(ctx context.Context, showtimeID int, seatLabels []string, token string, ttl time.Duration) error
	GetHoldFunc         func(ctx context.Context, token string) (*domain.Hold, error)
	ConfirmHoldFunc     func(ctx context.Context, token string) (*domain.Hold, error)
	ReleaseHoldFunc     func(ctx context.Context, token string) error
	ReclaimExpiredFunc  func(ctx context.Context, showtimeID int) error
	ActiveShowtimesFunc func(ctx context.Context) ([]int, error)
	PurgeShowtimesFunc  func(ctx context.Context, showtimeIDs []int) error
}

func (m *MockSeatInventory) GetSeatMap(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	return m.GetSeatMapFunc(ctx, showtimeID)
}

func (m *MockSeatInventory) AttemptHold(
	ctx context.Context,
	showtimeID int,
	seatLabels []string,
	token string,
	ttl time.Duration) error {

	return m.AttemptHoldFunc(ctx, showtimeID, seatLabels, token, ttl)
}

func (m *MockSeatInventory) GetHold(ctx context.Context, token string) (*domain.Hold, error) {
	return m.GetHoldFunc(ctx, token)
}

func (m *MockSeatInventory) ConfirmHold(ctx context.Context, token string) (*domain.Hold, error) {
	return m.ConfirmHoldFunc(ctx, token)
}

func (m *MockSeatInventory) ReleaseHold(ctx context.Context, token string) error {
	return m.ReleaseHoldFunc(ctx, token)
}

func (m *MockSeatInventory) ReclaimExpired(ctx context.Context, showtimeID int) error {
	return m.ReclaimExpiredFunc(ctx, showtimeID)
}

func (m *MockSeatInventory) ActiveShowtimes(ctx context.Context) ([]int, error) {
	return m.ActiveShowtimesFunc(ctx)
}

func (m *MockSeatInventory) PurgeShowtimes(ctx context.Context, showtimeIDs []int) error {
	return m.PurgeShowtimesFunc(ctx, showtimeIDs)
}
