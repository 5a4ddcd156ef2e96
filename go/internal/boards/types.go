package boards

import "github.com/google/uuid"

// CreateBoardRequest represents the data needed to create a board
type CreateBoardRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ClaimCellRequest represents the data needed to claim a cell
type ClaimCellRequest struct {
	BoardID        uuid.UUID `json:"board_id"`
	Row            int       `json:"row"`
	Col            int       `json:"col"`
	OwnerName      string    `json:"owner_name"`
	OwnerEmail     string    `json:"owner_email"`
	SecondaryLabel *string   `json:"secondary_label,omitempty"`
	Paid           bool      `json:"paid"`
}
