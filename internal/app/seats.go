package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

// GetSeatMapByShowtime returns a snapshot of the showtime's seats. Expired
// holds are reclaimed before the snapshot is taken, so a seat whose hold
// lapsed shows as available here without waiting for the sweeper.
func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.inventory.GetSeatMap(r.Context(), showtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatMapResponse(seatMap), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *domain.SeatMap) api.SeatMapResponse {
	resp := api.SeatMapResponse{
		ShowtimeId: seatMap.ShowtimeID,
		HallId:     seatMap.HallID,
		HallName:   seatMap.HallName,
		MovieTitle: seatMap.MovieTitle,
	}

	var currentRow *api.SeatRow

	for _, seat := range seatMap.Seats {
		if currentRow == nil || currentRow.Row != seat.Row {
			resp.SeatRows = append(resp.SeatRows, api.SeatRow{Row: seat.Row})
			currentRow = &resp.SeatRows[len(resp.SeatRows)-1]
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Label:  seat.Label,
			Row:    seat.Row,
			Column: seat.Col,
			State:  string(seat.State),
		})
	}

	return resp
}
