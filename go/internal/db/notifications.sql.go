package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const insertPendingNotification = `
INSERT INTO notification_records (
    id, quarter, board_id, board_key, kind, recipient_email, recipient_name, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
ON CONFLICT DO NOTHING
`

type InsertPendingNotificationParams struct {
	ID             uuid.UUID
	Quarter        int32
	BoardID        uuid.NullUUID
	BoardKey       string
	Kind           string
	RecipientEmail string
	RecipientName  string
	CreatedAt      time.Time
}

// InsertPendingNotification returns zero rows affected when a pending or
// sent record already holds the key.
func (q *Queries) InsertPendingNotification(ctx context.Context, arg InsertPendingNotificationParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertPendingNotification,
		arg.ID,
		arg.Quarter,
		arg.BoardID,
		arg.BoardKey,
		arg.Kind,
		arg.RecipientEmail,
		arg.RecipientName,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markNotificationSent = `
UPDATE notification_records
SET status = 'sent', sent_at = $1, error = NULL
WHERE id = $2 AND status = 'pending'
`

func (q *Queries) MarkNotificationSent(ctx context.Context, sentAt sql.NullTime, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markNotificationSent, sentAt, id)
	return err
}

const markNotificationFailed = `
UPDATE notification_records
SET status = 'failed', error = $1
WHERE id = $2 AND status = 'pending'
`

func (q *Queries) MarkNotificationFailed(ctx context.Context, errDetail sql.NullString, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markNotificationFailed, errDetail, id)
	return err
}

const countSentNotifications = `
SELECT COUNT(*)
FROM notification_records
WHERE quarter = $1 AND kind = $2 AND recipient_email = $3 AND board_key = $4 AND status = 'sent'
`

type NotificationKeyParams struct {
	Quarter        int32
	Kind           string
	RecipientEmail string
	BoardKey       string
}

func (q *Queries) CountSentNotifications(ctx context.Context, arg NotificationKeyParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSentNotifications,
		arg.Quarter,
		arg.Kind,
		arg.RecipientEmail,
		arg.BoardKey,
	).Scan(&count)
	return count, err
}

const deleteQuarterNotifications = `DELETE FROM notification_records WHERE quarter = $1`

func (q *Queries) DeleteQuarterNotifications(ctx context.Context, quarter int32) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteQuarterNotifications, quarter)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countNotificationsByStatus = `
SELECT quarter, status, COUNT(*)
FROM notification_records
GROUP BY quarter, status
ORDER BY quarter, status
`

type CountNotificationsByStatusRow struct {
	Quarter int32
	Status  string
	Count   int64
}

func (q *Queries) CountNotificationsByStatus(ctx context.Context) ([]CountNotificationsByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx, countNotificationsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountNotificationsByStatusRow
	for rows.Next() {
		var i CountNotificationsByStatusRow
		if err := rows.Scan(&i.Quarter, &i.Status, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listQuarterNotifications = `
SELECT id, quarter, board_id, board_key, kind, recipient_email, recipient_name,
       status, error, created_at, sent_at
FROM notification_records
WHERE quarter = $1
ORDER BY created_at, recipient_email
`

func (q *Queries) ListQuarterNotifications(ctx context.Context, quarter int32) ([]NotificationRecord, error) {
	rows, err := q.db.QueryContext(ctx, listQuarterNotifications, quarter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationRecord
	for rows.Next() {
		var i NotificationRecord
		if err := rows.Scan(
			&i.ID,
			&i.Quarter,
			&i.BoardID,
			&i.BoardKey,
			&i.Kind,
			&i.RecipientEmail,
			&i.RecipientName,
			&i.Status,
			&i.Error,
			&i.CreatedAt,
			&i.SentAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUnsettledNotifications = `
SELECT
    COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
FROM notification_records
`

func (q *Queries) CountUnsettledNotifications(ctx context.Context) (pending int64, failed int64, err error) {
	err = q.db.QueryRowContext(ctx, countUnsettledNotifications).Scan(&pending, &failed)
	return pending, failed, err
}
