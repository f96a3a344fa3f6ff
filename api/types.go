// Package api defines the request and response shapes of the HTTP API.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// SeatConflictResponse is returned when a hold or checkout lost one or more
// seats to another buyer. The buyer re-selects and retries.
type SeatConflictResponse struct {
	Message          string   `json:"message"`
	ConflictingSeats []string `json:"conflictingSeats"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type MovieSummary struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Duration    int    `json:"durationMins"`
	ReleaseDate string `json:"releaseDate"`
	PosterUrl   string `json:"posterUrl"`
}

type MovieListResponse struct {
	Movies   []MovieSummary `json:"movies"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

type ShowtimeSummary struct {
	Id          int             `json:"id"`
	HallId      int             `json:"hallId"`
	HallName    string          `json:"hallName"`
	ShowDate    string          `json:"showDate"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
}

type MovieShowtimesResponse struct {
	MovieId   int               `json:"movieId"`
	Showtimes []ShowtimeSummary `json:"showtimes"`
}

type Seat struct {
	Label  string `json:"label"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	State  string `json:"state"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	HallId     int       `json:"hallId"`
	HallName   string    `json:"hallName"`
	MovieTitle string    `json:"movieTitle"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type CreateHoldRequest struct {
	SeatIds    []string `json:"seatIds" validate:"min=1,max=10,dive,seat_label"`
	TtlSeconds *int     `json:"ttlSeconds,omitempty" validate:"omitempty,min=30,max=1800"`
}

type HoldResponse struct {
	HolderToken string    `json:"holderToken"`
	ShowtimeId  int       `json:"showtimeId"`
	Seats       []string  `json:"seats"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// CheckoutRequest is the explicit handoff from seat selection to payment.
// TotalAmount is advisory only: the server recomputes the charge from the
// showtime's ticket price and rejects nothing based on this value.
type CheckoutRequest struct {
	HolderToken   string           `json:"holderToken" validate:"required,uuid4"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,min=2,max=100"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
}

type CheckoutResponse struct {
	BookingId   int             `json:"bookingId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Seats       []string        `json:"seats"`
}

type BookingSummary struct {
	Id          int             `json:"id"`
	MovieTitle  string          `json:"movieTitle"`
	HallName    string          `json:"hallName"`
	ShowtimeId  int             `json:"showtimeId"`
	StartTime   time.Time       `json:"startTime"`
	TotalSeats  int             `json:"totalSeats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata *Metadata        `json:"metadata,omitempty"`
}

type BookingResponse struct {
	Id          int             `json:"id"`
	ShowtimeId  int             `json:"showtimeId"`
	Seats       []string        `json:"seats"`
	TotalSeats  int             `json:"totalSeats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}
