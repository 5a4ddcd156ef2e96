package notifications

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// Key identifies a notification for idempotency. BoardID is nil for
// participant mail, which goes out once per recipient.
type Key struct {
	Quarter int
	Kind    models.NotificationKind
	Email   string
	BoardID *uuid.UUID
}

// BoardKey is the board component of the unique ledger key.
func (k Key) BoardKey() string {
	if k.BoardID == nil {
		return ""
	}
	return k.BoardID.String()
}

// NormalizeEmail lowercases and trims an address for keying.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Message is one outbound email.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// DispatchSummary counts the outcome of one quarter dispatch.
type DispatchSummary struct {
	Quarter  int     `json:"quarter"`
	Sent     int     `json:"sent"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Pot      float64 `json:"pot"`
	Prize    float64 `json:"prize"`
	Disabled bool    `json:"disabled,omitempty"`
}
