package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/cinema-booking-system/internal/domain"
)

type MockMovieRepo struct {
	GetAllFunc  func(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Movie, error)
}

func (m *MockMovieRepo) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error) {

	return m.GetAllFunc(ctx, pagination)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

type MockHallRepo struct {
	GetByIdFunc func(ctx context.Context, id int) (*domain.Hall, error)
}

func (m *MockHallRepo) GetById(ctx context.Context, id int) (*domain.Hall, error) {
	return m.GetByIdFunc(ctx, id)
}

type MockShowtimeRepo struct {
	GetByIdFunc              func(ctx context.Context, id int) (*domain.Showtime, error)
	GetUpcomingByMovieIdFunc func(ctx context.Context, movieID int, from time.Time) ([]domain.Showtime, error)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockShowtimeRepo) GetUpcomingByMovieId(
	ctx context.Context,
	movieID int,
	from time.Time) ([]domain.Showtime, error) {

	return m.GetUpcomingByMovieIdFunc(ctx, movieID, from)
}
