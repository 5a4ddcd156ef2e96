package models

import (
	"time"

	"github.com/google/uuid"
)

// Cell is a single claimable (row, col) slot on a board.
type Cell struct {
	BoardID        uuid.UUID  `json:"board_id"`
	Row            int        `json:"row"`
	Col            int        `json:"col"`
	OwnerName      *string    `json:"owner_name,omitempty"`
	OwnerEmail     *string    `json:"owner_email,omitempty"`
	SecondaryLabel *string    `json:"secondary_label,omitempty"`
	Paid           bool       `json:"paid"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
}

// IsOpen reports whether nobody has claimed the cell.
func (c *Cell) IsOpen() bool {
	return c.OwnerName == nil || *c.OwnerName == ""
}

// Contact is a distinct claimant reachable by email.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
