package models

import "time"

const NumQuarters = 4

// QuarterState holds the stored score pair and lock flag of one quarter.
type QuarterState struct {
	Team1Score *int       `json:"team1_score,omitempty"`
	Team2Score *int       `json:"team2_score,omitempty"`
	Locked     bool       `json:"locked"`
	LockedAt   *time.Time `json:"locked_at,omitempty"`
}

// HasScores reports whether both scores are set.
func (q QuarterState) HasScores() bool {
	return q.Team1Score != nil && q.Team2Score != nil
}

// GameConfig is the singleton configuration shared by every board.
type GameConfig struct {
	Team1Name            string                    `json:"team1_name"`
	Team2Name            string                    `json:"team2_name"`
	PricePerCell         float64                   `json:"price_per_cell"`
	PayoutPercent        [NumQuarters]float64      `json:"payout_percent"`
	ClaimDeadline        *time.Time                `json:"claim_deadline,omitempty"`
	Quarters             [NumQuarters]QuarterState `json:"quarters"`
	LiveSyncEnabled      bool                      `json:"live_sync_enabled"`
	NotificationsEnabled bool                      `json:"notifications_enabled"`
	ExternalGameID       *string                   `json:"external_game_id,omitempty"`
	LastSyncedAt         *time.Time                `json:"last_synced_at,omitempty"`
}

// Quarter returns the state of quarter q (1-based).
func (c *GameConfig) Quarter(q int) QuarterState {
	return c.Quarters[q-1]
}

// QuarterScore is the cumulative score pair at the end of a quarter.
type QuarterScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Winner is the resolved winning cell of a board for a quarter.
type Winner struct {
	BoardID   string `json:"board_id"`
	BoardName string `json:"board_name"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Cell      *Cell  `json:"cell,omitempty"`
}
