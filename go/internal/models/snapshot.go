package models

// Snapshot is a provider-neutral view of a live scoreboard.
type Snapshot struct {
	Events []SnapshotEvent `json:"events"`
}

// SnapshotEvent is one game on the scoreboard.
type SnapshotEvent struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ShortName    string               `json:"short_name"`
	StatusName   string               `json:"status_name"`
	StatusDetail string               `json:"status_detail"`
	Period       int                  `json:"period"`
	Clock        string               `json:"clock"`
	Completed    bool                 `json:"completed"`
	Competitors  []SnapshotCompetitor `json:"competitors"`
}

// SnapshotCompetitor is a team entry of an event with its per-period points.
type SnapshotCompetitor struct {
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Abbreviation string `json:"abbreviation"`
	PeriodScores []int  `json:"period_scores"`
}

// GameState is the matched game as seen by the sync engine.
type GameState struct {
	GameID       string                    `json:"game_id"`
	Name         string                    `json:"name"`
	StatusDetail string                    `json:"status_detail"`
	Period       int                       `json:"period"`
	Clock        string                    `json:"clock"`
	IsFinal      bool                      `json:"is_final"`
	IsHalftime   bool                      `json:"is_halftime"`
	HasScores    bool                      `json:"has_scores"`
	Team1Periods []int                     `json:"team1_periods,omitempty"`
	Team2Periods []int                     `json:"team2_periods,omitempty"`
	Quarters     [NumQuarters]QuarterScore `json:"quarters"`
}

// QuarterScore returns the cumulative score after quarter q (1-based).
func (g *GameState) QuarterScore(q int) QuarterScore {
	return g.Quarters[q-1]
}
