package mocks

import "context"

type MockCascadeRepo struct {
	DeleteShowtimeFunc func(ctx context.Context, showtimeID int) ([]int, error)
	DeleteHallFunc     func(ctx context.Context, hallID int) ([]int, error)
	DeleteMovieFunc    func(ctx context.Context, movieID int) ([]int, error)
}

func (m *MockCascadeRepo) DeleteShowtime(ctx context.Context, showtimeID int) ([]int, error) {
	return m.DeleteShowtimeFunc(ctx, showtimeID)
}

func (m *MockCascadeRepo) DeleteHall(ctx context.Context, hallID int) ([]int, error) {
	return m.DeleteHallFunc(ctx, hallID)
}

func (m *MockCascadeRepo) DeleteMovie(ctx context.Context, movieID int) ([]int, error) {
	return m.DeleteMovieFunc(ctx, movieID)
}
