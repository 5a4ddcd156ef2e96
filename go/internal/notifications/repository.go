package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertPendingNotification(ctx context.Context, arg db.InsertPendingNotificationParams) (int64, error)
	MarkNotificationSent(ctx context.Context, sentAt sql.NullTime, id uuid.UUID) error
	MarkNotificationFailed(ctx context.Context, errDetail sql.NullString, id uuid.UUID) error
	CountSentNotifications(ctx context.Context, arg db.NotificationKeyParams) (int64, error)
	DeleteQuarterNotifications(ctx context.Context, quarter int32) (int64, error)
	CountNotificationsByStatus(ctx context.Context) ([]db.CountNotificationsByStatusRow, error)
	ListQuarterNotifications(ctx context.Context, quarter int32) ([]db.NotificationRecord, error)
	CountUnsettledNotifications(ctx context.Context) (int64, int64, error)
}

// Repository implements ledger data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new notification ledger repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// InsertPending records an attempt before it is made. It returns
// ErrAlreadyHandled when a live record already holds the key.
func (r *Repository) InsertPending(ctx context.Context, rec *models.NotificationRecord) error {
	key := Key{Quarter: rec.Quarter, Kind: rec.Kind, Email: rec.RecipientEmail, BoardID: rec.BoardID}
	n, err := r.queries.InsertPendingNotification(ctx, db.InsertPendingNotificationParams{
		ID:             rec.ID,
		Quarter:        int32(rec.Quarter),
		BoardID:        sqlutil.ToNullUUID(rec.BoardID),
		BoardKey:       key.BoardKey(),
		Kind:           string(rec.Kind),
		RecipientEmail: rec.RecipientEmail,
		RecipientName:  rec.RecipientName,
		CreatedAt:      rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert pending notification: %w", err)
	}
	if n == 0 {
		return ErrAlreadyHandled
	}
	return nil
}

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	if err := r.queries.MarkNotificationSent(ctx, sqlutil.ToSqlTime(&sentAt), id); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, detail string) error {
	if err := r.queries.MarkNotificationFailed(ctx, sqlutil.ToSqlString(&detail), id); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}

// HasSent reports whether a sent record exists for key
func (r *Repository) HasSent(ctx context.Context, key Key) (bool, error) {
	n, err := r.queries.CountSentNotifications(ctx, db.NotificationKeyParams{
		Quarter:        int32(key.Quarter),
		Kind:           string(key.Kind),
		RecipientEmail: key.Email,
		BoardKey:       key.BoardKey(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check sent notification: %w", err)
	}
	return n > 0, nil
}

// PurgeQuarter deletes every record of a quarter
func (r *Repository) PurgeQuarter(ctx context.Context, quarter int) (int, error) {
	n, err := r.queries.DeleteQuarterNotifications(ctx, int32(quarter))
	if err != nil {
		return 0, fmt.Errorf("failed to purge Q%d notifications: %w", quarter, err)
	}
	return int(n), nil
}

// StatusCounts returns sent/failed/pending counts for all four quarters
func (r *Repository) StatusCounts(ctx context.Context) ([]models.QuarterEmailStatus, error) {
	rows, err := r.queries.CountNotificationsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	out := make([]models.QuarterEmailStatus, models.NumQuarters)
	for i := range out {
		out[i].Quarter = i + 1
	}
	for _, row := range rows {
		if row.Quarter < 1 || row.Quarter > models.NumQuarters {
			continue
		}
		st := &out[row.Quarter-1]
		switch models.NotificationStatus(row.Status) {
		case models.NotificationStatusSent:
			st.Sent = int(row.Count)
		case models.NotificationStatusFailed:
			st.Failed = int(row.Count)
		case models.NotificationStatusPending:
			st.Pending = int(row.Count)
		}
	}
	return out, nil
}

// ListByQuarter returns the ledger rows of a quarter
func (r *Repository) ListByQuarter(ctx context.Context, quarter int) ([]models.NotificationRecord, error) {
	rows, err := r.queries.ListQuarterNotifications(ctx, int32(quarter))
	if err != nil {
		return nil, fmt.Errorf("failed to list Q%d notifications: %w", quarter, err)
	}

	records := make([]models.NotificationRecord, len(rows))
	for i, row := range rows {
		records[i] = models.NotificationRecord{
			ID:             row.ID,
			Quarter:        int(row.Quarter),
			BoardID:        sqlutil.FromNullUUID(row.BoardID),
			Kind:           models.NotificationKind(row.Kind),
			RecipientEmail: row.RecipientEmail,
			RecipientName:  row.RecipientName,
			Status:         models.NotificationStatus(row.Status),
			Error:          sqlutil.FromSqlStringPtr(row.Error),
			CreatedAt:      row.CreatedAt,
			SentAt:         sqlutil.FromSqlTime(row.SentAt),
		}
	}
	return records, nil
}

// CountUnsettled returns the number of pending and failed records
func (r *Repository) CountUnsettled(ctx context.Context) (pending int, failed int, err error) {
	p, f, err := r.queries.CountUnsettledNotifications(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count unsettled notifications: %w", err)
	}
	return int(p), int(f), nil
}
