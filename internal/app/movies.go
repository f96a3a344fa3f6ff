package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	page, pageSize := app.readPagination(r)

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), domain.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies: make([]api.MovieSummary, 0, len(movies)),
	}

	for _, movie := range movies {
		resp.Movies = append(resp.Movies, toMovieSummary(movie))
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

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieSummary(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieShowtimes(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtimes, err := app.showtimeRepo.GetUpcomingByMovieId(r.Context(), movieId, time.Now())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieShowtimesResponse{
		MovieId:   movieId,
		Showtimes: make([]api.ShowtimeSummary, 0, len(showtimes)),
	}

	for _, showtime := range showtimes {
		resp.Showtimes = append(resp.Showtimes, api.ShowtimeSummary{
			Id:          showtime.ID,
			HallId:      showtime.HallID,
			HallName:    showtime.HallName,
			ShowDate:    showtime.ShowDate.Format(time.DateOnly),
			StartTime:   showtime.StartTime,
			EndTime:     showtime.EndTime,
			TicketPrice: showtime.TicketPrice,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieSummary(movie *domain.Movie) api.MovieSummary {
	return api.MovieSummary{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		ReleaseDate: movie.ReleaseDate.Format(time.DateOnly),
		PosterUrl:   movie.PosterUrl,
	}
}
