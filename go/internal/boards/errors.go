package boards

import "errors"

var (
	// ErrDigitsLocked is returned when a locked board's digits would change.
	ErrDigitsLocked = errors.New("board digits are locked")
	// ErrInvalidDigits is returned for a draw that is not a permutation of 0-9.
	ErrInvalidDigits = errors.New("invalid digits")
	ErrBoardNotFound = errors.New("board not found")
	ErrCellTaken     = errors.New("cell already claimed")
	ErrInvalidCell   = errors.New("invalid cell")
)
