// Package winner maps a quarter score onto a board's digit draw.
package winner

import "github.com/stevemarchese/superbowl-squares/go/internal/models"

// Digit returns the last digit of a score, never negative.
func Digit(score int) int {
	d := score % 10
	if d < 0 {
		d += 10
	}
	return d
}

// Resolve returns the winning (row, col) for score on board. Team 1's last
// digit selects the column, team 2's last digit selects the row. ok is false
// when the board has no draw or either digit is missing from it. The owning
// cell is left for the caller to look up.
func Resolve(board *models.Board, score models.QuarterScore) (models.Winner, bool) {
	if board == nil || !board.HasDigits() {
		return models.Winner{}, false
	}

	col := board.ColDigits.IndexOf(Digit(score.Team1))
	row := board.RowDigits.IndexOf(Digit(score.Team2))
	if col < 0 || row < 0 {
		return models.Winner{}, false
	}

	return models.Winner{
		BoardID:   board.ID.String(),
		BoardName: board.Name,
		Row:       row,
		Col:       col,
	}, true
}
