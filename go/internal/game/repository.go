package game

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetGameConfig(ctx context.Context) (db.GameConfig, error)
	UpdateGameSettings(ctx context.Context, arg db.UpdateGameSettingsParams) error
	SetLiveSyncEnabled(ctx context.Context, enabled bool) error
	SetNotificationsEnabled(ctx context.Context, enabled bool) error
	RecordSync(ctx context.Context, externalGameID sql.NullString, syncedAt sql.NullTime) error
	ListGameQuarters(ctx context.Context) ([]db.GameQuarter, error)
	SetQuarterScores(ctx context.Context, arg db.SetQuarterScoresParams) error
	SetUnlockedQuarterScores(ctx context.Context, arg db.SetQuarterScoresParams) (int64, error)
	LockQuarter(ctx context.Context, lockedAt sql.NullTime, quarter int32) (int64, error)
	UnlockQuarter(ctx context.Context, quarter int32) (int64, error)
	ResetQuarters(ctx context.Context) error
}

// Repository implements game configuration data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new game repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// GetConfig loads the singleton configuration with all four quarters
func (r *Repository) GetConfig(ctx context.Context) (*models.GameConfig, error) {
	row, err := r.queries.GetGameConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get game config: %w", err)
	}
	quarters, err := r.queries.ListGameQuarters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game quarters: %w", err)
	}

	cfg := &models.GameConfig{
		Team1Name:            row.Team1Name,
		Team2Name:            row.Team2Name,
		PricePerCell:         row.PricePerCell,
		PayoutPercent:        [models.NumQuarters]float64{row.PayoutQ1, row.PayoutQ2, row.PayoutQ3, row.PayoutQ4},
		ClaimDeadline:        sqlutil.FromSqlTime(row.ClaimDeadline),
		LiveSyncEnabled:      row.LiveSyncEnabled,
		NotificationsEnabled: row.NotificationsEnabled,
		ExternalGameID:       sqlutil.FromSqlStringPtr(row.ExternalGameID),
		LastSyncedAt:         sqlutil.FromSqlTime(row.LastSyncedAt),
	}
	for _, q := range quarters {
		if q.Quarter < 1 || q.Quarter > models.NumQuarters {
			continue
		}
		cfg.Quarters[q.Quarter-1] = models.QuarterState{
			Team1Score: sqlutil.FromSqlInt32(q.Team1Score),
			Team2Score: sqlutil.FromSqlInt32(q.Team2Score),
			Locked:     q.Locked,
			LockedAt:   sqlutil.FromSqlTime(q.LockedAt),
		}
	}
	return cfg, nil
}

// UpdateSettings stores teams, price, payouts and deadline
func (r *Repository) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) error {
	err := r.queries.UpdateGameSettings(ctx, db.UpdateGameSettingsParams{
		Team1Name:     req.Team1Name,
		Team2Name:     req.Team2Name,
		PricePerCell:  req.PricePerCell,
		PayoutQ1:      req.PayoutPercent[0],
		PayoutQ2:      req.PayoutPercent[1],
		PayoutQ3:      req.PayoutPercent[2],
		PayoutQ4:      req.PayoutPercent[3],
		ClaimDeadline: sqlutil.ToSqlTime(req.ClaimDeadline),
	})
	if err != nil {
		return fmt.Errorf("failed to update game settings: %w", err)
	}
	return nil
}

func (r *Repository) SetLiveSync(ctx context.Context, enabled bool) error {
	if err := r.queries.SetLiveSyncEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("failed to set live sync: %w", err)
	}
	return nil
}

func (r *Repository) SetNotifications(ctx context.Context, enabled bool) error {
	if err := r.queries.SetNotificationsEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("failed to set notifications: %w", err)
	}
	return nil
}

// RecordSync caches the matched game id and the sync time
func (r *Repository) RecordSync(ctx context.Context, externalGameID string, syncedAt time.Time) error {
	var id *string
	if externalGameID != "" {
		id = &externalGameID
	}
	if err := r.queries.RecordSync(ctx, sqlutil.ToSqlString(id), sqlutil.ToSqlTime(&syncedAt)); err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// WriteQuarterScores overwrites a quarter's scores regardless of its lock
func (r *Repository) WriteQuarterScores(ctx context.Context, quarter int, score models.QuarterScore) error {
	err := r.queries.SetQuarterScores(ctx, scoreParams(quarter, score))
	if err != nil {
		return fmt.Errorf("failed to write Q%d scores: %w", quarter, err)
	}
	return nil
}

// WriteUnlockedQuarterScores writes scores only while the quarter is unlocked.
// It reports false when the quarter was locked.
func (r *Repository) WriteUnlockedQuarterScores(ctx context.Context, quarter int, score models.QuarterScore) (bool, error) {
	n, err := r.queries.SetUnlockedQuarterScores(ctx, scoreParams(quarter, score))
	if err != nil {
		return false, fmt.Errorf("failed to write Q%d scores: %w", quarter, err)
	}
	return n > 0, nil
}

// LockQuarter reports whether this call moved the quarter from unlocked to locked
func (r *Repository) LockQuarter(ctx context.Context, quarter int, lockedAt time.Time) (bool, error) {
	n, err := r.queries.LockQuarter(ctx, sqlutil.ToSqlTime(&lockedAt), int32(quarter))
	if err != nil {
		return false, fmt.Errorf("failed to lock Q%d: %w", quarter, err)
	}
	return n > 0, nil
}

// UnlockQuarter reports whether the quarter was locked before the call
func (r *Repository) UnlockQuarter(ctx context.Context, quarter int) (bool, error) {
	n, err := r.queries.UnlockQuarter(ctx, int32(quarter))
	if err != nil {
		return false, fmt.Errorf("failed to unlock Q%d: %w", quarter, err)
	}
	return n > 0, nil
}

// ResetQuarters clears every score and lock
func (r *Repository) ResetQuarters(ctx context.Context) error {
	if err := r.queries.ResetQuarters(ctx); err != nil {
		return fmt.Errorf("failed to reset quarters: %w", err)
	}
	return nil
}

func scoreParams(quarter int, score models.QuarterScore) db.SetQuarterScoresParams {
	return db.SetQuarterScoresParams{
		Team1Score: sqlutil.ToSqlInt32Direct(score.Team1),
		Team2Score: sqlutil.ToSqlInt32Direct(score.Team2),
		Quarter:    int32(quarter),
	}
}
