package game

import "errors"

// ErrQuarterLocked is returned when a manual score write targets a locked quarter.
var ErrQuarterLocked = errors.New("quarter is locked")
