package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/cinema-booking-system/api"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
	"github.com/metinatakli/cinema-booking-system/internal/mocks"
	"github.com/stretchr/testify/suite"
)

type SeatsTestSuite struct {
	suite.Suite
	app       *Application
	inventory *mocks.MockSeatInventory
}

func (s *SeatsTestSuite) SetupTest() {
	s.inventory = new(mocks.MockSeatInventory)

	s.app = newTestApplication(func(a *Application) {
		a.inventory = s.inventory
	})
}

func TestSeatsSuite(t *testing.T) {
	suite.Run(t, new(SeatsTestSuite))
}

func (s *SeatsTestSuite) TestGetSeatMapByShowtime() {
	tests := []struct {
		name           string
		showtimeID     string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.SeatMapResponse
		wantErrMessage string
	}{
		{
			name:           "should fail when showtime ID is invalid",
			showtimeID:     "0",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "invalid showtimeId parameter",
		},
		{
			name:       "should fail when showtime is not found",
			showtimeID: "999",
			setupMocks: func() {
				s.inventory.GetSeatMapFunc = func(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
					return nil, domain.ErrRecordNotFound
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "should fail when the inventory is unreachable",
			showtimeID: "1",
			setupMocks: func() {
				s.inventory.GetSeatMapFunc = func(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
					return nil, fmt.Errorf("redis error")
				}
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name:       "should return the seat map grouped by row",
			showtimeID: "1",
			setupMocks: func() {
				s.inventory.GetSeatMapFunc = func(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
					return &domain.SeatMap{
						ShowtimeID: 1,
						HallID:     2,
						HallName:   "Hall 1",
						MovieTitle: "Test Movie",
						Seats: []domain.SeatStatus{
							{Label: "A1", Row: 1, Col: 1, State: domain.SeatAvailable},
							{Label: "A2", Row: 1, Col: 2, State: domain.SeatHeld},
							{Label: "B1", Row: 2, Col: 1, State: domain.SeatBooked},
							{Label: "B2", Row: 2, Col: 2, State: domain.SeatAvailable},
						},
					}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.SeatMapResponse{
				ShowtimeId: 1,
				HallId:     2,
				HallName:   "Hall 1",
				MovieTitle: "Test Movie",
				SeatRows: []api.SeatRow{
					{
						Row: 1,
						Seats: []api.Seat{
							{Label: "A1", Row: 1, Column: 1, State: "available"},
							{Label: "A2", Row: 1, Column: 2, State: "held"},
						},
					},
					{
						Row: 2,
						Seats: []api.Seat{
							{Label: "B1", Row: 2, Column: 1, State: "booked"},
							{Label: "B2", Row: 2, Column: 2, State: "available"},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, fmt.Sprintf("/showtimes/%s/seats", tt.showtimeID), nil)
			r = withURLParams(r, map[string]string{"showtimeId": tt.showtimeID})

			s.app.GetSeatMapByShowtime(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.SeatMapResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

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
