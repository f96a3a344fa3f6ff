package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// MockGateway approves every charge except payment methods containing
// "declined", mirroring Stripe's test card naming. Used in dev and in the
// integration suite.
type MockGateway struct {
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	if strings.Contains(req.PaymentMethod, "declined") {
		return &domain.ChargeResult{
			Succeeded:     false,
			FailureReason: "Your card was declined.",
		}, nil
	}

	return &domain.ChargeResult{
		TransactionID: "mock_" + uuid.New().String(),
		Succeeded:     true,
	}, nil
}
