package notifications

import "errors"

// ErrAlreadyHandled means a pending or sent record already holds the key.
var ErrAlreadyHandled = errors.New("notification already handled")
