package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/payout"
	"github.com/stevemarchese/superbowl-squares/go/internal/quarters"
	"github.com/stevemarchese/superbowl-squares/go/internal/winner"
)

// GameReader provides the shared game configuration
type GameReader interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
}

// BoardReader provides the boards, cells and claimants a dispatch reads
type BoardReader interface {
	ListActiveBoards(ctx context.Context) ([]models.Board, error)
	GetCell(ctx context.Context, boardID uuid.UUID, row, col int) (*models.Cell, error)
	CountClaimedCells(ctx context.Context) (int, error)
	ListClaimedContacts(ctx context.Context) ([]models.Contact, error)
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeFailed
	outcomeSkipped
)

// Dispatcher sends the winner and participant mail of a locked quarter.
type Dispatcher struct {
	game   GameReader
	boards BoardReader
	ledger *App
	mailer Mailer
}

func NewDispatcher(game GameReader, boards BoardReader, ledger *App, mailer Mailer) *Dispatcher {
	return &Dispatcher{
		game:   game,
		boards: boards,
		ledger: ledger,
		mailer: mailer,
	}
}

// DispatchForQuarter notifies every board's winner, then every other
// claimant once. Individual send failures are recorded in the ledger and
// counted; only failures to read the game state are returned.
func (d *Dispatcher) DispatchForQuarter(ctx context.Context, quarter int) (*DispatchSummary, error) {
	if err := quarters.Validate(quarter); err != nil {
		return nil, err
	}

	cfg, err := d.game.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}

	summary := &DispatchSummary{Quarter: quarter}
	if !cfg.NotificationsEnabled {
		log.Info().Int("quarter", quarter).Msg("notifications disabled, skipping dispatch")
		summary.Disabled = true
		return summary, nil
	}

	state := cfg.Quarter(quarter)
	if !state.HasScores() {
		log.Info().Int("quarter", quarter).Msg("quarter has no scores, skipping dispatch")
		return summary, nil
	}

	claimed, err := d.boards.CountClaimedCells(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count claimed cells: %w", err)
	}

	result := QuarterResult{
		Quarter:   quarter,
		Team1Name: cfg.Team1Name,
		Team2Name: cfg.Team2Name,
		Score:     models.QuarterScore{Team1: *state.Team1Score, Team2: *state.Team2Score},
		Prize:     payout.Prize(quarter, cfg, claimed),
	}
	summary.Pot = payout.Pot(cfg, claimed)
	summary.Prize = result.Prize

	winners, err := d.resolveWinners(ctx, result.Score)
	if err != nil {
		return nil, err
	}
	result.Winners = winners

	covered := make(map[string]bool)
	for _, w := range winners {
		if w.Cell == nil || w.Cell.IsOpen() || w.Cell.OwnerEmail == nil || *w.Cell.OwnerEmail == "" {
			continue
		}

		to := models.Contact{Name: *w.Cell.OwnerName, Email: NormalizeEmail(*w.Cell.OwnerEmail)}
		covered[to.Email] = true

		boardID := w.Cell.BoardID
		key := Key{Quarter: quarter, Kind: models.NotificationKindWinner, Email: to.Email, BoardID: &boardID}
		summary.count(d.deliver(ctx, key, to, WinnerMessage(result, w, to)))
	}

	contacts, err := d.boards.ListClaimedContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimed contacts: %w", err)
	}

	for _, c := range contacts {
		c.Email = NormalizeEmail(c.Email)
		if c.Email == "" || covered[c.Email] {
			continue
		}
		covered[c.Email] = true

		key := Key{Quarter: quarter, Kind: models.NotificationKindParticipant, Email: c.Email}
		summary.count(d.deliver(ctx, key, c, ParticipantMessage(result, c)))
	}

	log.Info().
		Int("quarter", quarter).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Float64("prize", summary.Prize).
		Float64("pot", summary.Pot).
		Msg("quarter notifications dispatched")

	return summary, nil
}

func (d *Dispatcher) resolveWinners(ctx context.Context, score models.QuarterScore) ([]models.Winner, error) {
	boards, err := d.boards.ListActiveBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active boards: %w", err)
	}

	winners := make([]models.Winner, 0, len(boards))
	for i := range boards {
		w, ok := winner.Resolve(&boards[i], score)
		if !ok {
			log.Debug().Str("board_id", boards[i].ID.String()).Msg("board has no draw, no winner")
			continue
		}

		cell, err := d.boards.GetCell(ctx, boards[i].ID, w.Row, w.Col)
		if err != nil {
			return nil, fmt.Errorf("failed to get winning cell: %w", err)
		}
		w.Cell = cell
		winners = append(winners, w)
	}
	return winners, nil
}

// deliver runs one ledger cycle: pending, send, then sent or failed.
func (d *Dispatcher) deliver(ctx context.Context, key Key, to models.Contact, msg Message) outcome {
	logger := log.With().
		Int("quarter", key.Quarter).
		Str("kind", string(key.Kind)).
		Str("to", key.Email).
		Logger()

	sent, err := d.ledger.HasSent(ctx, key)
	if err != nil {
		logger.Error().Err(err).Msg("failed to check notification ledger")
		return outcomeFailed
	}
	if sent {
		return outcomeSkipped
	}

	rec, err := d.ledger.Begin(ctx, key, to.Name)
	if errors.Is(err, ErrAlreadyHandled) {
		logger.Debug().Msg("notification already handled")
		return outcomeSkipped
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to record pending notification")
		return outcomeFailed
	}

	sendErr := d.mailer.Send(ctx, msg)
	if err := d.ledger.Complete(ctx, rec, sendErr); err != nil {
		logger.Error().Err(err).Str("notification_id", rec.ID.String()).Msg("failed to record notification outcome")
	}

	if sendErr != nil {
		logger.Warn().Err(sendErr).Msg("notification send failed")
		return outcomeFailed
	}
	return outcomeSent
}

func (s *DispatchSummary) count(o outcome) {
	switch o {
	case outcomeSent:
		s.Sent++
	case outcomeFailed:
		s.Failed++
	default:
		s.Skipped++
	}
}
