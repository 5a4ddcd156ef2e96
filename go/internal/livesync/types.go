package livesync

import (
	"time"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// SyncRequest represents one admin "sync now" call
type SyncRequest struct {
	ForceQuarter *int `json:"force_quarter,omitempty"`
}

// QuarterUpdate is a quarter whose scores were written by a sync
type QuarterUpdate struct {
	Quarter     int  `json:"quarter"`
	Team1Score  int  `json:"team1_score"`
	Team2Score  int  `json:"team2_score"`
	NewlyLocked bool `json:"newly_locked"`
}

// GameStatus is the live state of the matched game
type GameStatus struct {
	GameID       string `json:"game_id"`
	Name         string `json:"name"`
	StatusDetail string `json:"status_detail"`
	Period       int    `json:"period"`
	Clock        string `json:"clock"`
	IsFinal      bool   `json:"is_final"`
	IsHalftime   bool   `json:"is_halftime"`
}

// SyncResult is returned by Sync. On a feed or match failure only Quarters
// is set, holding the last stored scores.
type SyncResult struct {
	Updated     []QuarterUpdate                          `json:"updated"`
	NewlyLocked []int                                    `json:"newly_locked"`
	Game        *GameStatus                              `json:"game,omitempty"`
	Quarters    [models.NumQuarters]models.QuarterState `json:"quarters"`
	SyncedAt    *time.Time                               `json:"synced_at,omitempty"`
}

// ResendResult reports a resend of one quarter's notifications
type ResendResult struct {
	Quarter int  `json:"quarter"`
	Purged  int  `json:"purged"`
	Queued  bool `json:"queued"`
}

func gameStatus(g *models.GameState) *GameStatus {
	return &GameStatus{
		GameID:       g.GameID,
		Name:         g.Name,
		StatusDetail: g.StatusDetail,
		Period:       g.Period,
		Clock:        g.Clock,
		IsFinal:      g.IsFinal,
		IsHalftime:   g.IsHalftime,
	}
}
