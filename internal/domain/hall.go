package domain

import (
	"context"
	"fmt"
	"strconv"
)

// Hall describes the physical seat layout of a screening room. Seat labels
// are derived from the layout: row letter followed by column number, so a
// 2x5 hall contains A1..A5 and B1..B5.
type Hall struct {
	ID         int
	Name       string
	TotalSeats int
	LayoutRows int
	LayoutCols int
}

func SeatLabel(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row-1, col)
}

// SeatLabels enumerates every seat of the hall in row-major order.
func (h Hall) SeatLabels() []string {
	labels := make([]string, 0, h.LayoutRows*h.LayoutCols)

	for row := 1; row <= h.LayoutRows; row++ {
		for col := 1; col <= h.LayoutCols; col++ {
			labels = append(labels, SeatLabel(row, col))
		}
	}

	return labels
}

// HasSeat reports whether the label addresses a seat inside the hall layout.
func (h Hall) HasSeat(label string) bool {
	row, col, ok := ParseSeatLabel(label)
	if !ok {
		return false
	}

	return row >= 1 && row <= h.LayoutRows && col >= 1 && col <= h.LayoutCols
}

// ParseSeatLabel splits a label like "B7" into its row and column numbers.
func ParseSeatLabel(label string) (row, col int, ok bool) {
	if len(label) < 2 {
		return 0, 0, false
	}

	r := label[0]
	if r < 'A' || r > 'Z' {
		return 0, 0, false
	}

	c, err := strconv.Atoi(label[1:])
	if err != nil || c < 1 {
		return 0, 0, false
	}

	return int(r-'A') + 1, c, true
}

type HallRepository interface {
	GetById(ctx context.Context, id int) (*Hall, error)
}
