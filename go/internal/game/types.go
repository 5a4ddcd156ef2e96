package game

import "time"

// UpdateSettingsRequest carries the admin-editable game settings
type UpdateSettingsRequest struct {
	Team1Name     string     `json:"team1_name"`
	Team2Name     string     `json:"team2_name"`
	PricePerCell  float64    `json:"price_per_cell"`
	PayoutPercent [4]float64 `json:"payout_percent"`
	ClaimDeadline *time.Time `json:"claim_deadline,omitempty"`
}
