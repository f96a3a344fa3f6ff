package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// Cascade deletion handlers. Each removes a catalog entity with every record
// referencing it in one transaction, then drops the affected showtimes'
// seat state from the inventory. After a successful delete, none of the
// entity's bookings or holds remain retrievable.

func (app *Application) DeleteShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.cascadeDelete(w, r, showtimeId, "showtime", app.cascadeRepo.DeleteShowtime)
}

func (app *Application) DeleteHallHandler(w http.ResponseWriter, r *http.Request) {
	hallId, err := app.readIDParam(r, "hallId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.cascadeDelete(w, r, hallId, "hall", app.cascadeRepo.DeleteHall)
}

func (app *Application) DeleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.cascadeDelete(w, r, movieId, "movie", app.cascadeRepo.DeleteMovie)
}

func (app *Application) cascadeDelete(
	w http.ResponseWriter,
	r *http.Request,
	id int,
	entity string,
	deleteFn func(ctx context.Context, id int) ([]int, error)) {

	logger := app.contextGetLogger(r)

	deletedShowtimeIds, err := deleteFn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrCascadeConflict):
			logger.Error("cascade deletion failed", "entity", entity, "id", id, "error", err)
			app.errorResponse(w, r, http.StatusConflict, "The record could not be deleted, please try again")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if len(deletedShowtimeIds) > 0 {
		if err := app.inventory.PurgeShowtimes(r.Context(), deletedShowtimeIds); err != nil {
			// the database rows are gone; leftover hold keys expire on their own
			logger.Error("failed to purge seat state for deleted showtimes",
				"entity", entity, "id", id, "error", err)
		}
	}

	logger.Info("cascade deletion completed", "entity", entity, "id", id, "showtimes", len(deletedShowtimeIds))

	w.WriteHeader(http.StatusNoContent)
}
