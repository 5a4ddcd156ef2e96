package livesync

import (
	"fmt"

	"github.com/stevemarchese/superbowl-squares/go/clients"
)

// ErrFeedUnavailable means the score feed could not be read; nothing was changed.
var ErrFeedUnavailable = fmt.Errorf("score feed unavailable: %w", clients.ErrUnavailable)
