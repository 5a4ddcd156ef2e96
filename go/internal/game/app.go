package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/quarters"
)

// GameRepository defines what the app layer needs from the repository
type GameRepository interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) error
	SetLiveSync(ctx context.Context, enabled bool) error
	SetNotifications(ctx context.Context, enabled bool) error
	WriteUnlockedQuarterScores(ctx context.Context, quarter int, score models.QuarterScore) (bool, error)
	LockQuarter(ctx context.Context, quarter int, lockedAt time.Time) (bool, error)
	UnlockQuarter(ctx context.Context, quarter int) (bool, error)
	ResetQuarters(ctx context.Context) error
}

// App handles the admin side of the game configuration. Automatic score
// writes go through the sync engine instead.
type App struct {
	repo  GameRepository
	clock clockwork.Clock
}

// NewApp creates a new game App
func NewApp(repo GameRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// GetConfig returns the current configuration
func (a *App) GetConfig(ctx context.Context) (*models.GameConfig, error) {
	return a.repo.GetConfig(ctx)
}

// UpdateSettings validates and stores the admin-editable settings
func (a *App) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*models.GameConfig, error) {
	req.Team1Name = strings.TrimSpace(req.Team1Name)
	req.Team2Name = strings.TrimSpace(req.Team2Name)
	if req.Team1Name == "" || req.Team2Name == "" {
		return nil, fmt.Errorf("validation failed: both team names are required")
	}
	if req.PricePerCell < 0 {
		return nil, fmt.Errorf("validation failed: price per cell cannot be negative")
	}
	for i, p := range req.PayoutPercent {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("validation failed: Q%d payout %.2f out of range", i+1, p)
		}
	}

	if err := a.repo.UpdateSettings(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("team1", req.Team1Name).
		Str("team2", req.Team2Name).
		Float64("price_per_cell", req.PricePerCell).
		Msg("game settings updated")

	return a.repo.GetConfig(ctx)
}

// SetLiveSync toggles automatic sync
func (a *App) SetLiveSync(ctx context.Context, enabled bool) error {
	if err := a.repo.SetLiveSync(ctx, enabled); err != nil {
		return err
	}
	log.Info().Bool("enabled", enabled).Msg("live sync toggled")
	return nil
}

// SetNotifications toggles outbound quarter mail
func (a *App) SetNotifications(ctx context.Context, enabled bool) error {
	if err := a.repo.SetNotifications(ctx, enabled); err != nil {
		return err
	}
	log.Info().Bool("enabled", enabled).Msg("notifications toggled")
	return nil
}

// LockQuarter manually locks a quarter. It reports whether the call changed
// the flag.
func (a *App) LockQuarter(ctx context.Context, quarter int) (bool, error) {
	if err := quarters.Validate(quarter); err != nil {
		return false, err
	}
	changed, err := a.repo.LockQuarter(ctx, quarter, a.clock.Now().UTC())
	if err != nil {
		return false, err
	}
	log.Info().Int("quarter", quarter).Bool("changed", changed).Msg("quarter locked manually")
	return changed, nil
}

// UnlockQuarter is the only way a locked quarter becomes writable again.
func (a *App) UnlockQuarter(ctx context.Context, quarter int) (bool, error) {
	if err := quarters.Validate(quarter); err != nil {
		return false, err
	}
	changed, err := a.repo.UnlockQuarter(ctx, quarter)
	if err != nil {
		return false, err
	}
	log.Warn().Int("quarter", quarter).Bool("changed", changed).Msg("quarter unlocked manually")
	return changed, nil
}

// SetQuarterScores is the manual score correction for an unlocked quarter.
func (a *App) SetQuarterScores(ctx context.Context, quarter int, score models.QuarterScore) error {
	if err := quarters.Validate(quarter); err != nil {
		return err
	}
	if score.Team1 < 0 || score.Team2 < 0 {
		return fmt.Errorf("validation failed: scores cannot be negative")
	}
	written, err := a.repo.WriteUnlockedQuarterScores(ctx, quarter, score)
	if err != nil {
		return err
	}
	if !written {
		return fmt.Errorf("%w: Q%d", ErrQuarterLocked, quarter)
	}
	log.Info().
		Int("quarter", quarter).
		Int("team1", score.Team1).
		Int("team2", score.Team2).
		Msg("quarter scores set manually")
	return nil
}

// ResetScores clears all quarter scores and locks
func (a *App) ResetScores(ctx context.Context) error {
	if err := a.repo.ResetQuarters(ctx); err != nil {
		return err
	}
	log.Warn().Msg("all quarter scores reset")
	return nil
}
