package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind distinguishes winner mail from the generic result mail.
type NotificationKind string

const (
	NotificationKindWinner      NotificationKind = "winner"
	NotificationKindParticipant NotificationKind = "participant"
)

// NotificationStatus is the ledger state of one attempt.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// NotificationRecord is one ledger row.
type NotificationRecord struct {
	ID             uuid.UUID          `json:"id"`
	Quarter        int                `json:"quarter"`
	BoardID        *uuid.UUID         `json:"board_id,omitempty"`
	Kind           NotificationKind   `json:"kind"`
	RecipientEmail string             `json:"recipient_email"`
	RecipientName  string             `json:"recipient_name"`
	Status         NotificationStatus `json:"status"`
	Error          *string            `json:"error,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
}

// QuarterEmailStatus counts ledger rows of one quarter by status.
type QuarterEmailStatus struct {
	Quarter int `json:"quarter"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}
