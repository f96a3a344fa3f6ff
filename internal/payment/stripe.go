package payment

import (
	"context"
	"errors"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway charges through Stripe PaymentIntents, confirmed in a single
// call. A card decline is a gateway answer, not an error; only transport and
// configuration problems surface as errors.
type StripeGateway struct {
	currency string
}

func NewStripeGateway(currency string) *StripeGateway {
	return &StripeGateway{
		currency: currency,
	}
}

func (g *StripeGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	amountCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(req.PaymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: map[string]string{
			"reference": req.Reference,
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &domain.ChargeResult{
				Succeeded:     false,
				FailureReason: stripeErr.Msg,
			}, nil
		}

		return nil, err
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return &domain.ChargeResult{
			TransactionID: intent.ID,
			Succeeded:     false,
			FailureReason: string(intent.Status),
		}, nil
	}

	return &domain.ChargeResult{
		TransactionID: intent.ID,
		Succeeded:     true,
	}, nil
}
