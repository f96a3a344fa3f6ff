package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type MockPaymentRepo struct {
	CreateFunc         func(ctx context.Context, payment *domain.Payment) error
	GetByBookingIdFunc func(ctx context.Context, bookingID int) (*domain.Payment, error)
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return m.CreateFunc(ctx, payment)
}

func (m *MockPaymentRepo) GetByBookingId(ctx context.Context, bookingID int) (*domain.Payment, error) {
	return m.GetByBookingIdFunc(ctx, bookingID)
}

type MockPaymentGateway struct {
	ChargeFunc func(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error)
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	return m.ChargeFunc(ctx, req)
}
