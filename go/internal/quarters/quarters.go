// Package quarters holds the per-quarter lock rules applied by a sync.
package quarters

import (
	"errors"
	"fmt"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// ErrInvalidQuarter is returned for quarter numbers outside 1..4.
var ErrInvalidQuarter = errors.New("invalid quarter")

// Validate checks that q names one of the four quarters.
func Validate(q int) error {
	if q < 1 || q > models.NumQuarters {
		return fmt.Errorf("%w: %d", ErrInvalidQuarter, q)
	}
	return nil
}

// Eligible reports whether game progress allows quarter q to be locked.
func Eligible(q int, game *models.GameState) bool {
	if game == nil {
		return false
	}
	switch q {
	case 1:
		return game.Period > 1 || game.IsHalftime || game.IsFinal
	case 2:
		return game.Period > 2 || game.IsHalftime || game.IsFinal
	case 3:
		return game.Period > 3 || game.IsFinal
	case 4:
		return game.IsFinal
	default:
		return false
	}
}

// Update is a score write for one quarter, with Lock set when the quarter
// transitions from unlocked to locked.
type Update struct {
	Quarter int                 `json:"quarter"`
	Score   models.QuarterScore `json:"score"`
	Lock    bool                `json:"lock"`
}

// Plan decides which quarters a sync writes. A quarter is written when it is
// eligible and unlocked, or when it is the forced quarter. Locked quarters
// are never unlocked here.
func Plan(states [models.NumQuarters]models.QuarterState, game *models.GameState, force *int) []Update {
	if game == nil || !game.HasScores {
		return nil
	}

	var updates []Update
	for q := 1; q <= models.NumQuarters; q++ {
		locked := states[q-1].Locked
		forced := force != nil && *force == q
		if !forced && (locked || !Eligible(q, game)) {
			continue
		}
		updates = append(updates, Update{
			Quarter: q,
			Score:   game.QuarterScore(q),
			Lock:    !locked,
		})
	}
	return updates
}
