package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// CreateHoldHandler claims the requested seats atomically. Either every seat
// is granted or the response lists the ones already taken, so the client can
// offer a fresh selection instead of a partial one.
func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateHoldRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seatLabels := dedupeSeatLabels(input.SeatIds)

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if showtime.HasStarted(time.Now()) {
		app.badRequestResponse(w, r, fmt.Errorf("showtime has already started"))
		return
	}

	hall, err := app.hallRepo.GetById(r.Context(), showtime.HallID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	var unknownSeats []string
	for _, label := range seatLabels {
		if !hall.HasSeat(label) {
			unknownSeats = append(unknownSeats, label)
		}
	}
	if len(unknownSeats) > 0 {
		app.badRequestResponse(w, r, fmt.Errorf("seats do not exist in hall: %s", strings.Join(unknownSeats, ", ")))
		return
	}

	ttl := app.config.Hold.TTL
	if input.TtlSeconds != nil {
		ttl = time.Duration(*input.TtlSeconds) * time.Second
	}

	token := uuid.NewString()

	err = app.inventory.AttemptHold(r.Context(), showtimeId, seatLabels, token, ttl)
	if err != nil {
		var seatUnavailableErr *domain.SeatUnavailableError

		switch {
		case errors.As(err, &seatUnavailableErr):
			app.seatConflictResponse(w, r, seatUnavailableErr.ConflictingSeats)
		default:
			logger.Error("failed to create seat hold", "showtime_id", showtimeId, "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("seat hold created", "showtime_id", showtimeId, "seats", len(seatLabels))

	resp := api.HoldResponse{
		HolderToken: token,
		ShowtimeId:  showtimeId,
		Seats:       seatLabels,
		ExpiresAt:   time.Now().Add(ttl),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReleaseHoldHandler frees the seats of a hold. Releasing an expired or
// unknown token succeeds with no effect.
func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	err := app.validator.Var(token, "required,uuid4")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid hold token"))
		return
	}

	err = app.inventory.ReleaseHold(r.Context(), token)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func dedupeSeatLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))

	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}

	return out
}
