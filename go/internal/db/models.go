package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Board struct {
	ID           uuid.UUID
	Name         string
	RowDigits    pqtype.NullRawMessage
	ColDigits    pqtype.NullRawMessage
	DigitsLocked bool
	Active       bool
	CreatedAt    time.Time
}

type Cell struct {
	BoardID        uuid.UUID
	RowIdx         int32
	ColIdx         int32
	OwnerName      sql.NullString
	OwnerEmail     sql.NullString
	SecondaryLabel sql.NullString
	Paid           bool
	ClaimedAt      sql.NullTime
}

type GameConfig struct {
	ID                   int32
	Team1Name            string
	Team2Name            string
	PricePerCell         float64
	PayoutQ1             float64
	PayoutQ2             float64
	PayoutQ3             float64
	PayoutQ4             float64
	ClaimDeadline        sql.NullTime
	LiveSyncEnabled      bool
	NotificationsEnabled bool
	ExternalGameID       sql.NullString
	LastSyncedAt         sql.NullTime
}

type GameQuarter struct {
	Quarter    int32
	Team1Score sql.NullInt32
	Team2Score sql.NullInt32
	Locked     bool
	LockedAt   sql.NullTime
}

type NotificationRecord struct {
	ID             uuid.UUID
	Quarter        int32
	BoardID        uuid.NullUUID
	BoardKey       string
	Kind           string
	RecipientEmail string
	RecipientName  string
	Status         string
	Error          sql.NullString
	CreatedAt      time.Time
	SentAt         sql.NullTime
}
