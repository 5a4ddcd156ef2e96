package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Digits is an ordering of the ten digits 0-9 across the rows or columns of
// a board. A nil Digits means the numbers have not been drawn yet.
type Digits []int

// Validate reports whether d is a bijection over {0..9}.
func (d Digits) Validate() error {
	if len(d) != 10 {
		return fmt.Errorf("expected 10 digits, got %d", len(d))
	}
	var seen [10]bool
	for i, v := range d {
		if v < 0 || v > 9 {
			return fmt.Errorf("digit %d at position %d out of range", v, i)
		}
		if seen[v] {
			return fmt.Errorf("digit %d appears more than once", v)
		}
		seen[v] = true
	}
	return nil
}

// IndexOf returns the position of digit in d, or -1 when absent.
func (d Digits) IndexOf(digit int) int {
	for i, v := range d {
		if v == digit {
			return i
		}
	}
	return -1
}

// Board represents one 10x10 grid with its own digit draw and cells
type Board struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RowDigits    Digits    `json:"row_digits,omitempty"`
	ColDigits    Digits    `json:"col_digits,omitempty"`
	DigitsLocked bool      `json:"digits_locked"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasDigits reports whether both permutations have been drawn.
func (b *Board) HasDigits() bool {
	return b.RowDigits != nil && b.ColDigits != nil
}
