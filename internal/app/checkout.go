package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// CheckoutHandler drives a hold through payment into a confirmed booking.
//
// The hold is fenced against expiry before the charge is attempted, so the
// seats cannot be handed to another buyer while the payment settles. The
// charge itself runs with no inventory state locked beyond the hold keys.
// On any failure after the pending booking exists, the booking is cancelled
// and the hold released, returning the seats to the pool.
func (app *Application) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CheckoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	hold, err := app.inventory.GetHold(r.Context(), input.HolderToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldNotFound):
			app.holdExpiredResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), hold.ShowtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if showtime.HasStarted(time.Now()) {
		app.errorResponse(w, r, http.StatusConflict, "The showtime has already started")
		return
	}

	// fence the hold so its seats cannot lapse back to available while the
	// charge is in flight
	hold, err = app.inventory.ConfirmHold(r.Context(), input.HolderToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldNotFound), errors.Is(err, domain.ErrHoldExpired):
			app.holdExpiredResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	booking, err := domain.NewBooking(userId, showtime, hold.SeatLabels)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking.HolderToken = hold.Token

	if input.TotalAmount != nil && !input.TotalAmount.Equal(booking.TotalAmount) {
		logger.Warn("client total differs from server total",
			"client_total", input.TotalAmount.String(),
			"server_total", booking.TotalAmount.String())
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		var seatUnavailableErr *domain.SeatUnavailableError

		switch {
		case errors.As(err, &seatUnavailableErr):
			app.releaseHold(r.Context(), logger, input.HolderToken)
			app.seatConflictResponse(w, r, seatUnavailableErr.ConflictingSeats)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	result, err := app.gateway.Charge(r.Context(), domain.ChargeRequest{
		Amount:        booking.TotalAmount,
		Currency:      app.config.Stripe.Currency,
		PaymentMethod: input.PaymentMethod,
		Reference:     fmt.Sprintf("booking-%d", booking.ID),
		Description:   fmt.Sprintf("%d seat(s) for %s", booking.TotalSeats, showtime.MovieTitle),
	})
	if err != nil {
		logger.Error("payment gateway unreachable", "booking_id", booking.ID, "error", err)
		app.rollbackCheckout(r.Context(), logger, booking, input)
		app.errorResponse(w, r, http.StatusBadGateway, "Payment could not be processed, please try again")
		return
	}

	if !result.Succeeded {
		logger.Info("payment declined", "booking_id", booking.ID, "reason", result.FailureReason)

		failedPayment := &domain.Payment{
			BookingID:     booking.ID,
			Amount:        booking.TotalAmount,
			PaymentMethod: input.PaymentMethod,
			Status:        domain.PaymentFailed,
			ErrorMsg:      &result.FailureReason,
		}
		if err := app.paymentRepo.Create(r.Context(), failedPayment); err != nil {
			logger.Error("failed to record declined payment", "booking_id", booking.ID, "error", err)
		}

		app.rollbackCheckout(r.Context(), logger, booking, input)

		app.errorResponse(w, r, http.StatusPaymentRequired,
			fmt.Sprintf("Payment failed: %s", result.FailureReason))
		return
	}

	now := time.Now()
	payment := &domain.Payment{
		BookingID:     booking.ID,
		Amount:        booking.TotalAmount,
		PaymentMethod: input.PaymentMethod,
		TransactionID: &result.TransactionID,
		Status:        domain.PaymentSuccess,
		PaymentDate:   &now,
	}

	err = app.bookingRepo.Confirm(r.Context(), booking.ID, payment)
	if err != nil {
		// the charge went through but the booking could not be confirmed;
		// keep the booking pending for the sweeper and surface the failure
		logger.Error("failed to confirm booking after successful charge",
			"booking_id", booking.ID, "transaction_id", result.TransactionID, "error", err)
		app.serverErrorResponse(w, r, err)
		return
	}

	app.releaseHold(r.Context(), logger, input.HolderToken)

	logger.Info("booking confirmed", "booking_id", booking.ID, "user_id", userId, "seats", booking.TotalSeats)

	resp := api.CheckoutResponse{
		BookingId:   booking.ID,
		Status:      string(domain.BookingConfirmed),
		TotalAmount: booking.TotalAmount,
		Seats:       booking.SeatLabels,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// rollbackCheckout returns a failed checkout to a clean state: the pending
// booking is cancelled and the hold released so the seats are available
// again. Failures here are logged, not surfaced; the sweeper covers them.
func (app *Application) rollbackCheckout(ctx context.Context, logger *slog.Logger, booking *domain.Booking, input api.CheckoutRequest) {
	if err := app.bookingRepo.Cancel(ctx, booking.ID); err != nil {
		logger.Error("failed to cancel booking during checkout rollback", "booking_id", booking.ID, "error", err)
	}

	if err := app.inventory.ReleaseHold(ctx, input.HolderToken); err != nil {
		logger.Error("failed to release hold during checkout rollback", "booking_id", booking.ID, "error", err)
	}
}

func (app *Application) releaseHold(ctx context.Context, logger *slog.Logger, token string) {
	if err := app.inventory.ReleaseHold(ctx, token); err != nil {
		logger.Error("failed to release hold", "error", err)
	}
}

func (app *Application) holdExpiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "Your seat hold has expired or does not exist, please select seats again"
	app.errorResponse(w, r, http.StatusConflict, message)
}
