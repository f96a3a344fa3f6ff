package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
	"github.com/metinatakli/cinema-booking-system/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BookingsTestSuite struct {
	suite.Suite
	app          *Application
	bookingRepo  *mocks.MockBookingRepo
	userRepo     *mocks.MockUserRepo
	showtimeRepo *mocks.MockShowtimeRepo
	inventory    *mocks.MockSeatInventory
}

func (s *BookingsTestSuite) SetupTest() {
	s.bookingRepo = new(mocks.MockBookingRepo)
	s.userRepo = new(mocks.MockUserRepo)
	s.showtimeRepo = new(mocks.MockShowtimeRepo)
	s.inventory = new(mocks.MockSeatInventory)

	s.app = newTestApplication(func(a *Application) {
		a.bookingRepo = s.bookingRepo
		a.userRepo = s.userRepo
		a.showtimeRepo = s.showtimeRepo
		a.inventory = s.inventory
	})
}

func TestBookingsSuite(t *testing.T) {
	suite.Run(t, new(BookingsTestSuite))
}

func confirmedBooking(id, userId int) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		UserID:      userId,
		ShowtimeID:  1,
		SeatLabels:  []string{"A1", "A2"},
		TotalSeats:  2,
		TotalAmount: decimal.RequireFromString("25.00"),
		Status:      domain.BookingConfirmed,
	}
}

func (s *BookingsTestSuite) TestGetUserBookingsHandler() {
	s.bookingRepo.GetSummariesByUserIdFunc = func(
		ctx context.Context,
		userID int,
		pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

		s.Equal(7, userID)
		s.Equal(1, pagination.Page)
		s.Equal(20, pagination.PageSize)

		return []domain.BookingSummary{
			{
				BookingID:   3,
				MovieTitle:  "Test Movie",
				HallName:    "Hall 1",
				ShowtimeID:  1,
				TotalSeats:  2,
				TotalAmount: decimal.RequireFromString("25.00"),
				Status:      domain.BookingConfirmed,
			},
		}, domain.NewMetadata(1, 1, 20), nil
	}

	w, r := executeRequest(s.T(), http.MethodGet, "/users/me/bookings", nil)
	r = withAuthenticatedUser(r, 7)

	s.app.GetUserBookingsHandler(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.UserBookingsResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)

	s.Require().Len(resp.Bookings, 1)
	s.Equal(3, resp.Bookings[0].Id)
	s.Equal("confirmed", resp.Bookings[0].Status)

	wantMetadata := &api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 20, TotalRecords: 1}
	s.Empty(cmp.Diff(wantMetadata, resp.Metadata))
}

func (s *BookingsTestSuite) TestGetBookingHandler() {
	tests := []struct {
		name       string
		bookingID  string
		userID     int
		setupMocks func()
		wantStatus int
	}{
		{
			name:       "should fail when booking ID is invalid",
			bookingID:  "abc",
			userID:     7,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:      "should fail when booking does not exist",
			bookingID: "99",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:      "should forbid another user's booking",
			bookingID: "3",
			userID:    8,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return &domain.User{ID: 8}, nil
				}
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:      "should return the booking to its owner",
			bookingID: "3",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return &domain.User{ID: 7}, nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:      "should return another user's booking to an admin",
			bookingID: "3",
			userID:    1,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return &domain.User{ID: 1, IsAdmin: true}, nil
				}
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, fmt.Sprintf("/users/me/bookings/%s", tt.bookingID), nil)
			r = withAuthenticatedUser(r, tt.userID)
			r = withURLParams(r, map[string]string{"bookingId": tt.bookingID})

			s.app.GetBookingHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp api.BookingResponse
				err := json.NewDecoder(w.Body).Decode(&resp)
				s.Require().NoError(err)

				s.Equal(3, resp.Id)
				s.Equal([]string{"A1", "A2"}, resp.Seats)
			}
		})
	}
}

func (s *BookingsTestSuite) TestCancelBookingHandler() {
	regularUser := &domain.User{ID: 7}
	adminUser := &domain.User{ID: 1, IsAdmin: true}

	tests := []struct {
		name           string
		bookingID      string
		userID         int
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:      "should fail when booking does not exist",
			bookingID: "99",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:      "should not let a stranger cancel the booking",
			bookingID: "3",
			userID:    8,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return &domain.User{ID: 8}, nil
				}
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:      "should fail when the showtime has started",
			bookingID: "3",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return regularUser, nil
				}
				s.showtimeRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Showtime, error) {
					showtime := upcomingShowtime(1)
					showtime.StartTime = time.Now().Add(-time.Minute)
					return showtime, nil
				}
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Bookings cannot be cancelled after the showtime has started",
		},
		{
			name:      "should fail when the booking is already cancelled",
			bookingID: "3",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					booking := confirmedBooking(3, 7)
					booking.Status = domain.BookingCancelled
					return booking, nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return regularUser, nil
				}
				s.showtimeRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Showtime, error) {
					return upcomingShowtime(1), nil
				}
				s.bookingRepo.CancelFunc = func(ctx context.Context, bookingID int) error {
					return domain.ErrInvalidTransition
				}
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:      "should let the owner cancel before the showtime",
			bookingID: "3",
			userID:    7,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return regularUser, nil
				}
				s.showtimeRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Showtime, error) {
					return upcomingShowtime(1), nil
				}
				s.bookingRepo.CancelFunc = func(ctx context.Context, bookingID int) error {
					s.Equal(3, bookingID)
					return nil
				}
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:      "should let an admin cancel another user's booking",
			bookingID: "3",
			userID:    1,
			setupMocks: func() {
				s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
					return confirmedBooking(3, 7), nil
				}
				s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
					return adminUser, nil
				}
				s.showtimeRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Showtime, error) {
					return upcomingShowtime(1), nil
				}
				s.bookingRepo.CancelFunc = func(ctx context.Context, bookingID int) error {
					return nil
				}
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodDelete, fmt.Sprintf("/bookings/%s", tt.bookingID), nil)
			r = withAuthenticatedUser(r, tt.userID)
			r = withURLParams(r, map[string]string{"bookingId": tt.bookingID})

			s.app.CancelBookingHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

// Cancelling a booking that is still pending must also release its live
// hold, so the seats go back to the pool before the TTL runs out.
func (s *BookingsTestSuite) TestCancelPendingBookingReleasesHold() {
	const holderToken = "1b671a64-40d5-491e-99b0-da01ff1f3341"

	s.bookingRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Booking, error) {
		booking := confirmedBooking(3, 7)
		booking.Status = domain.BookingPending
		booking.HolderToken = holderToken
		return booking, nil
	}
	s.userRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.User, error) {
		return &domain.User{ID: 7}, nil
	}
	s.showtimeRepo.GetByIdFunc = func(ctx context.Context, id int) (*domain.Showtime, error) {
		return upcomingShowtime(1), nil
	}
	s.bookingRepo.CancelFunc = func(ctx context.Context, bookingID int) error {
		return nil
	}

	var released []string
	s.inventory.ReleaseHoldFunc = func(ctx context.Context, token string) error {
		released = append(released, token)
		return nil
	}

	w, r := executeRequest(s.T(), http.MethodDelete, "/bookings/3", nil)
	r = withAuthenticatedUser(r, 7)
	r = withURLParams(r, map[string]string{"bookingId": "3"})

	s.app.CancelBookingHandler(w, r)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal([]string{holderToken}, released)
}
