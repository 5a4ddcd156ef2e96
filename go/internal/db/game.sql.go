package db

import (
	"context"
	"database/sql"
)

const getGameConfig = `
SELECT id, team1_name, team2_name, price_per_cell,
       payout_q1, payout_q2, payout_q3, payout_q4,
       claim_deadline, live_sync_enabled, notifications_enabled,
       external_game_id, last_synced_at
FROM game_config
WHERE id = 1
`

func (q *Queries) GetGameConfig(ctx context.Context) (GameConfig, error) {
	row := q.db.QueryRowContext(ctx, getGameConfig)
	var i GameConfig
	err := row.Scan(
		&i.ID,
		&i.Team1Name,
		&i.Team2Name,
		&i.PricePerCell,
		&i.PayoutQ1,
		&i.PayoutQ2,
		&i.PayoutQ3,
		&i.PayoutQ4,
		&i.ClaimDeadline,
		&i.LiveSyncEnabled,
		&i.NotificationsEnabled,
		&i.ExternalGameID,
		&i.LastSyncedAt,
	)
	return i, err
}

const updateGameSettings = `
UPDATE game_config
SET team1_name = $1, team2_name = $2, price_per_cell = $3,
    payout_q1 = $4, payout_q2 = $5, payout_q3 = $6, payout_q4 = $7,
    claim_deadline = $8
WHERE id = 1
`

type UpdateGameSettingsParams struct {
	Team1Name     string
	Team2Name     string
	PricePerCell  float64
	PayoutQ1      float64
	PayoutQ2      float64
	PayoutQ3      float64
	PayoutQ4      float64
	ClaimDeadline sql.NullTime
}

func (q *Queries) UpdateGameSettings(ctx context.Context, arg UpdateGameSettingsParams) error {
	_, err := q.db.ExecContext(ctx, updateGameSettings,
		arg.Team1Name,
		arg.Team2Name,
		arg.PricePerCell,
		arg.PayoutQ1,
		arg.PayoutQ2,
		arg.PayoutQ3,
		arg.PayoutQ4,
		arg.ClaimDeadline,
	)
	return err
}

const setLiveSyncEnabled = `UPDATE game_config SET live_sync_enabled = $1 WHERE id = 1`

func (q *Queries) SetLiveSyncEnabled(ctx context.Context, enabled bool) error {
	_, err := q.db.ExecContext(ctx, setLiveSyncEnabled, enabled)
	return err
}

const setNotificationsEnabled = `UPDATE game_config SET notifications_enabled = $1 WHERE id = 1`

func (q *Queries) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	_, err := q.db.ExecContext(ctx, setNotificationsEnabled, enabled)
	return err
}

const recordSync = `UPDATE game_config SET external_game_id = $1, last_synced_at = $2 WHERE id = 1`

func (q *Queries) RecordSync(ctx context.Context, externalGameID sql.NullString, syncedAt sql.NullTime) error {
	_, err := q.db.ExecContext(ctx, recordSync, externalGameID, syncedAt)
	return err
}

const listGameQuarters = `
SELECT quarter, team1_score, team2_score, locked, locked_at
FROM game_quarters
ORDER BY quarter
`

func (q *Queries) ListGameQuarters(ctx context.Context) ([]GameQuarter, error) {
	rows, err := q.db.QueryContext(ctx, listGameQuarters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GameQuarter
	for rows.Next() {
		var i GameQuarter
		if err := rows.Scan(
			&i.Quarter,
			&i.Team1Score,
			&i.Team2Score,
			&i.Locked,
			&i.LockedAt,
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

const setQuarterScores = `
UPDATE game_quarters
SET team1_score = $1, team2_score = $2
WHERE quarter = $3
`

type SetQuarterScoresParams struct {
	Team1Score sql.NullInt32
	Team2Score sql.NullInt32
	Quarter    int32
}

func (q *Queries) SetQuarterScores(ctx context.Context, arg SetQuarterScoresParams) error {
	_, err := q.db.ExecContext(ctx, setQuarterScores, arg.Team1Score, arg.Team2Score, arg.Quarter)
	return err
}

const setUnlockedQuarterScores = `
UPDATE game_quarters
SET team1_score = $1, team2_score = $2
WHERE quarter = $3 AND locked = FALSE
`

// SetUnlockedQuarterScores writes scores only while the quarter is unlocked.
func (q *Queries) SetUnlockedQuarterScores(ctx context.Context, arg SetQuarterScoresParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setUnlockedQuarterScores, arg.Team1Score, arg.Team2Score, arg.Quarter)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const lockQuarter = `
UPDATE game_quarters
SET locked = TRUE, locked_at = $1
WHERE quarter = $2 AND locked = FALSE
`

// LockQuarter flips the lock flag only if it is currently unlocked. One row
// affected means this call performed the transition.
func (q *Queries) LockQuarter(ctx context.Context, lockedAt sql.NullTime, quarter int32) (int64, error) {
	result, err := q.db.ExecContext(ctx, lockQuarter, lockedAt, quarter)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const unlockQuarter = `
UPDATE game_quarters
SET locked = FALSE, locked_at = NULL
WHERE quarter = $1 AND locked = TRUE
`

func (q *Queries) UnlockQuarter(ctx context.Context, quarter int32) (int64, error) {
	result, err := q.db.ExecContext(ctx, unlockQuarter, quarter)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetQuarters = `
UPDATE game_quarters
SET team1_score = NULL, team2_score = NULL, locked = FALSE, locked_at = NULL
`

func (q *Queries) ResetQuarters(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetQuarters)
	return err
}
