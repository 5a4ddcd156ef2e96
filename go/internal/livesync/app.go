// Package livesync pulls the live score feed into the stored quarter scores,
// locks quarters as the game advances and hands newly locked quarters to
// the notification pool.
package livesync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/game"
	"github.com/stevemarchese/superbowl-squares/go/internal/gamematch"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/quarters"
	"github.com/stevemarchese/superbowl-squares/go/internal/sports/base"
	"github.com/stevemarchese/superbowl-squares/go/internal/sqlutil"
)

const publishTimeout = 5 * time.Second

// GameAdmin defines what the app needs from the game configuration
type GameAdmin interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
	SetLiveSync(ctx context.Context, enabled bool) error
	LockQuarter(ctx context.Context, quarter int) (bool, error)
	UnlockQuarter(ctx context.Context, quarter int) (bool, error)
}

// Ledger defines what the app needs from the notification ledger
type Ledger interface {
	PurgeQuarter(ctx context.Context, quarter int) (int, error)
	EmailStatus(ctx context.Context) ([]models.QuarterEmailStatus, error)
}

// DispatchQueue accepts quarters to notify without waiting on them
type DispatchQueue interface {
	Submit(quarter int) bool
}

// App coordinates the feed, the quarter state machine and dispatch.
type App struct {
	db        *sql.DB
	game      GameAdmin
	feed      base.SportPlugin
	ledger    Ledger
	queue     DispatchQueue
	publisher EventPublisher
	clock     clockwork.Clock
}

// NewApp creates a new livesync App. Score and lock writes during a sync
// go through their own transaction on conn.
func NewApp(conn *sql.DB, gameAdmin GameAdmin, feed base.SportPlugin, ledger Ledger, queue DispatchQueue, publisher EventPublisher, clock clockwork.Clock) *App {
	if publisher == nil {
		publisher = &LogPublisher{}
	}
	return &App{
		db:        conn,
		game:      gameAdmin,
		feed:      feed,
		ledger:    ledger,
		queue:     queue,
		publisher: publisher,
		clock:     clock,
	}
}

// Sync reads the feed and applies it to the stored quarters. A quarter is
// written when it is eligible and unlocked, or when it is req.ForceQuarter.
// Quarters this call locked are queued for notification and published.
//
// When the feed cannot be read or the game cannot be found the returned
// result is still non-nil and carries the stored scores; nothing is written.
func (a *App) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	if req.ForceQuarter != nil {
		if err := quarters.Validate(*req.ForceQuarter); err != nil {
			return nil, err
		}
	}

	cfg, err := a.game.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}
	cached := &SyncResult{Quarters: cfg.Quarters, SyncedAt: cfg.LastSyncedAt}

	snap, err := a.feed.FetchSnapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("score feed unavailable")
		return cached, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	state, err := gamematch.Match(snap, cfg.Team1Name, cfg.Team2Name, gamematch.Options{
		ChampionshipMarker: a.feed.ChampionshipMarker(),
		HalftimeStatus:     a.feed.HalftimeStatus(),
	})
	if err != nil {
		var nf *gamematch.NotFoundError
		if errors.As(err, &nf) {
			log.Warn().
				Str("team1", cfg.Team1Name).
				Str("team2", cfg.Team2Name).
				Strs("available", nf.Available).
				Msg("configured game not on scoreboard")
		}
		return cached, err
	}

	updates := quarters.Plan(cfg.Quarters, state, req.ForceQuarter)
	now := a.clock.Now().UTC()

	result := &SyncResult{
		Updated:     []QuarterUpdate{},
		NewlyLocked: []int{},
		Game:        gameStatus(state),
		SyncedAt:    &now,
	}

	err = sqlutil.Run(ctx, a.db, func(tx *sql.Tx) *db.Queries { return db.New(tx) }, func(q *db.Queries) error {
		repo := game.NewRepository(q)

		for _, u := range updates {
			written := true
			var err error
			if u.Lock {
				// Another sync may have locked it since the config was read.
				written, err = repo.WriteUnlockedQuarterScores(ctx, u.Quarter, u.Score)
			} else {
				err = repo.WriteQuarterScores(ctx, u.Quarter, u.Score)
			}
			if err != nil {
				return err
			}
			if !written {
				continue
			}

			update := QuarterUpdate{Quarter: u.Quarter, Team1Score: u.Score.Team1, Team2Score: u.Score.Team2}
			if u.Lock {
				newly, err := repo.LockQuarter(ctx, u.Quarter, now)
				if err != nil {
					return err
				}
				if newly {
					update.NewlyLocked = true
					result.NewlyLocked = append(result.NewlyLocked, u.Quarter)
				}
			}
			result.Updated = append(result.Updated, update)
		}

		return repo.RecordSync(ctx, state.GameID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist sync: %w", err)
	}

	after, err := a.game.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload game config: %w", err)
	}
	result.Quarters = after.Quarters

	for _, u := range result.Updated {
		if !u.NewlyLocked {
			continue
		}
		if !a.queue.Submit(u.Quarter) {
			log.Error().Int("quarter", u.Quarter).Msg("could not queue quarter notifications")
		}
		a.publishLocked(ctx, u, state.GameID, now)
	}

	log.Info().
		Str("game_id", state.GameID).
		Int("period", state.Period).
		Bool("final", state.IsFinal).
		Int("updated", len(result.Updated)).
		Ints("newly_locked", result.NewlyLocked).
		Msg("live sync complete")

	return result, nil
}

func (a *App) publishLocked(ctx context.Context, u QuarterUpdate, gameID string, lockedAt time.Time) {
	event, err := newQuarterLockedEvent(QuarterLockedPayload{
		Quarter:    u.Quarter,
		Team1Score: u.Team1Score,
		Team2Score: u.Team2Score,
		GameID:     gameID,
		LockedAt:   lockedAt,
	})
	if err != nil {
		log.Error().Err(err).Int("quarter", u.Quarter).Msg("failed to build quarter locked event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := a.publisher.Publish(pubCtx, event); err != nil {
		log.Warn().Err(err).Int("quarter", u.Quarter).Msg("failed to publish quarter locked event")
	}
}

// SetLiveSync toggles the live-sync flag
func (a *App) SetLiveSync(ctx context.Context, enabled bool) error {
	return a.game.SetLiveSync(ctx, enabled)
}

// LockQuarter locks a quarter by hand. It does not send notifications;
// use ResendQuarter for that.
func (a *App) LockQuarter(ctx context.Context, quarter int) (bool, error) {
	return a.game.LockQuarter(ctx, quarter)
}

// UnlockQuarter reopens a quarter for manual correction and forced syncs
func (a *App) UnlockQuarter(ctx context.Context, quarter int) (bool, error) {
	return a.game.UnlockQuarter(ctx, quarter)
}

// ResendQuarter purges the quarter's ledger rows and queues a fresh dispatch
func (a *App) ResendQuarter(ctx context.Context, quarter int) (*ResendResult, error) {
	if err := quarters.Validate(quarter); err != nil {
		return nil, err
	}
	purged, err := a.ledger.PurgeQuarter(ctx, quarter)
	if err != nil {
		return nil, fmt.Errorf("failed to purge quarter notifications: %w", err)
	}
	return &ResendResult{
		Quarter: quarter,
		Purged:  purged,
		Queued:  a.queue.Submit(quarter),
	}, nil
}

// EmailStatus returns sent, failed and pending counts per quarter
func (a *App) EmailStatus(ctx context.Context) ([]models.QuarterEmailStatus, error) {
	return a.ledger.EmailStatus(ctx)
}

// Status returns the stored configuration, scores and last sync
func (a *App) Status(ctx context.Context) (*models.GameConfig, error) {
	return a.game.GetConfig(ctx)
}
