package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	page, pageSize := app.readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(
		r.Context(), userId, domain.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: make([]api.BookingSummary, 0, len(summaries)),
	}

	for _, summary := range summaries {
		resp.Bookings = append(resp.Bookings, api.BookingSummary{
			Id:          summary.BookingID,
			MovieTitle:  summary.MovieTitle,
			HallName:    summary.HallName,
			ShowtimeId:  summary.ShowtimeID,
			StartTime:   summary.StartTime,
			TotalSeats:  summary.TotalSeats,
			TotalAmount: summary.TotalAmount,
			Status:      string(summary.Status),
			CreatedAt:   summary.CreatedAt,
		})
	}

	if metadata != nil {
		m := toMetadataResponse(metadata)
		resp.Metadata = &m
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !booking.CanBeViewedBy(user) {
		app.forbiddenResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBookingHandler cancels a booking on behalf of its owner or an
// administrator. Cancellation is refused once the showtime has started.
func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !booking.CanBeCancelledBy(user) {
		app.forbiddenResponse(w, r)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), booking.ShowtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if showtime.HasStarted(time.Now()) {
		app.errorResponse(w, r, http.StatusConflict, "Bookings cannot be cancelled after the showtime has started")
		return
	}

	err = app.bookingRepo.Cancel(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// a pending booking still owns its hold; give the seats back now rather
	// than waiting out the TTL
	if booking.Status == domain.BookingPending && booking.HolderToken != "" {
		app.releaseHold(r.Context(), logger, booking.HolderToken)
	}

	logger.Info("booking cancelled", "booking_id", bookingId, "by_admin", user.IsAdmin)

	w.WriteHeader(http.StatusNoContent)
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		Id:          booking.ID,
		ShowtimeId:  booking.ShowtimeID,
		Seats:       booking.SeatLabels,
		TotalSeats:  booking.TotalSeats,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
	}
}
