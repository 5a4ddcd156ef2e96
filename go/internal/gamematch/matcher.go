// Package gamematch locates the configured game on a live scoreboard and
// derives the cumulative score at the end of each quarter.
package gamematch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// ErrGameNotFound is returned when no event matches the configured teams.
var ErrGameNotFound = errors.New("game not found")

// NotFoundError carries the team names of every event on the scoreboard so
// an operator can fix the configured names.
type NotFoundError struct {
	Team1     string
	Team2     string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no game matching %q vs %q (available: %s)",
		e.Team1, e.Team2, strings.Join(e.Available, "; "))
}

func (e *NotFoundError) Unwrap() error { return ErrGameNotFound }

// Options tunes provider-specific markers.
type Options struct {
	ChampionshipMarker string
	HalftimeStatus     string
}

// DefaultOptions match the ESPN NFL scoreboard.
func DefaultOptions() Options {
	return Options{
		ChampionshipMarker: "Super Bowl",
		HalftimeStatus:     "STATUS_HALFTIME",
	}
}

// Match finds the first event whose two competitors match team1 and team2.
// When none does, it falls back to the first championship event by name,
// without scores.
func Match(snap *models.Snapshot, team1, team2 string, opts Options) (*models.GameState, error) {
	if snap == nil {
		return nil, &NotFoundError{Team1: team1, Team2: team2}
	}

	t1 := normalize(team1)
	t2 := normalize(team2)

	for i := range snap.Events {
		ev := &snap.Events[i]
		idx1, idx2 := assign(ev.Competitors, t1, t2)
		if idx1 < 0 || idx2 < 0 {
			continue
		}
		game := baseState(ev, opts)
		game.HasScores = true
		game.Team1Periods = append([]int(nil), ev.Competitors[idx1].PeriodScores...)
		game.Team2Periods = append([]int(nil), ev.Competitors[idx2].PeriodScores...)
		t1Cum := Cumulative(game.Team1Periods)
		t2Cum := Cumulative(game.Team2Periods)
		for q := 0; q < models.NumQuarters; q++ {
			game.Quarters[q] = models.QuarterScore{Team1: t1Cum[q], Team2: t2Cum[q]}
		}
		return game, nil
	}

	if marker := normalize(opts.ChampionshipMarker); marker != "" {
		for i := range snap.Events {
			ev := &snap.Events[i]
			if strings.Contains(normalize(ev.Name), marker) {
				return baseState(ev, opts), nil
			}
		}
	}

	return nil, &NotFoundError{Team1: team1, Team2: team2, Available: available(snap)}
}

// Cumulative returns the running total after each of the four quarters.
// Missing periods contribute nothing; overtime periods are ignored.
func Cumulative(periods []int) [models.NumQuarters]int {
	var out [models.NumQuarters]int
	total := 0
	for q := 0; q < models.NumQuarters; q++ {
		if q < len(periods) {
			total += periods[q]
		}
		out[q] = total
	}
	return out
}

// CompetitorMatches applies the fuzzy team-name rule to one competitor.
// configured must already be normalized.
func CompetitorMatches(c models.SnapshotCompetitor, configured string) bool {
	if configured == "" {
		return false
	}
	name := normalize(c.Name)
	if name != "" && (strings.Contains(name, configured) || strings.Contains(configured, name)) {
		return true
	}
	abbr := normalize(c.Abbreviation)
	if abbr != "" && (strings.Contains(configured, abbr) || strings.Contains(abbr, configured)) {
		return true
	}
	for _, word := range strings.Fields(name) {
		if strings.Contains(configured, word) {
			return true
		}
	}
	return false
}

func assign(competitors []models.SnapshotCompetitor, t1, t2 string) (int, int) {
	idx1, idx2 := -1, -1
	for i, c := range competitors {
		if idx1 < 0 && CompetitorMatches(c, t1) {
			idx1 = i
			continue
		}
		if idx2 < 0 && CompetitorMatches(c, t2) {
			idx2 = i
		}
	}
	return idx1, idx2
}

func baseState(ev *models.SnapshotEvent, opts Options) *models.GameState {
	return &models.GameState{
		GameID:       ev.ID,
		Name:         ev.Name,
		StatusDetail: ev.StatusDetail,
		Period:       ev.Period,
		Clock:        ev.Clock,
		IsFinal:      ev.Completed,
		IsHalftime:   opts.HalftimeStatus != "" && ev.StatusName == opts.HalftimeStatus,
	}
}

func available(snap *models.Snapshot) []string {
	out := make([]string, 0, len(snap.Events))
	for _, ev := range snap.Events {
		names := make([]string, 0, len(ev.Competitors))
		for _, c := range ev.Competitors {
			names = append(names, c.Name)
		}
		if len(names) == 0 {
			out = append(out, ev.Name)
			continue
		}
		out = append(out, strings.Join(names, " vs "))
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
