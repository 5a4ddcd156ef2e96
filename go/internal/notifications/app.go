package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/quarters"
)

// LedgerRepository defines what the ledger needs from the repository
type LedgerRepository interface {
	InsertPending(ctx context.Context, rec *models.NotificationRecord) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, detail string) error
	HasSent(ctx context.Context, key Key) (bool, error)
	PurgeQuarter(ctx context.Context, quarter int) (int, error)
	StatusCounts(ctx context.Context) ([]models.QuarterEmailStatus, error)
	ListByQuarter(ctx context.Context, quarter int) ([]models.NotificationRecord, error)
	CountUnsettled(ctx context.Context) (pending int, failed int, err error)
}

// App is the notification ledger: every attempt is recorded pending before
// the send and resolved to sent or failed after it.
type App struct {
	repo  LedgerRepository
	clock clockwork.Clock
}

// NewApp creates a new ledger App
func NewApp(repo LedgerRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// HasSent reports whether key already reached sent
func (a *App) HasSent(ctx context.Context, key Key) (bool, error) {
	key.Email = NormalizeEmail(key.Email)
	return a.repo.HasSent(ctx, key)
}

// Begin inserts the pending record for key. ErrAlreadyHandled means another
// attempt holds the key and nothing must be sent.
func (a *App) Begin(ctx context.Context, key Key, recipientName string) (*models.NotificationRecord, error) {
	if err := quarters.Validate(key.Quarter); err != nil {
		return nil, err
	}
	email := NormalizeEmail(key.Email)
	if email == "" {
		return nil, fmt.Errorf("recipient email is required")
	}

	rec := &models.NotificationRecord{
		ID:             uuid.New(),
		Quarter:        key.Quarter,
		BoardID:        key.BoardID,
		Kind:           key.Kind,
		RecipientEmail: email,
		RecipientName:  recipientName,
		Status:         models.NotificationStatusPending,
		CreatedAt:      a.clock.Now().UTC(),
	}
	if err := a.repo.InsertPending(ctx, rec); err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to begin notification: %w", err)
	}
	return rec, nil
}

// Complete resolves a pending record from the send outcome
func (a *App) Complete(ctx context.Context, rec *models.NotificationRecord, sendErr error) error {
	if sendErr != nil {
		detail := sendErr.Error()
		rec.Status = models.NotificationStatusFailed
		rec.Error = &detail
		return a.repo.MarkFailed(ctx, rec.ID, detail)
	}

	now := a.clock.Now().UTC()
	rec.Status = models.NotificationStatusSent
	rec.SentAt = &now
	return a.repo.MarkSent(ctx, rec.ID, now)
}

// PurgeQuarter removes every record of a quarter so it can be re-sent
func (a *App) PurgeQuarter(ctx context.Context, quarter int) (int, error) {
	if err := quarters.Validate(quarter); err != nil {
		return 0, err
	}
	n, err := a.repo.PurgeQuarter(ctx, quarter)
	if err != nil {
		return 0, err
	}
	log.Warn().Int("quarter", quarter).Int("deleted", n).Msg("notification ledger purged")
	return n, nil
}

// EmailStatus returns per-quarter delivery counts
func (a *App) EmailStatus(ctx context.Context) ([]models.QuarterEmailStatus, error) {
	return a.repo.StatusCounts(ctx)
}

// Records lists the ledger rows of a quarter
func (a *App) Records(ctx context.Context, quarter int) ([]models.NotificationRecord, error) {
	if err := quarters.Validate(quarter); err != nil {
		return nil, err
	}
	return a.repo.ListByQuarter(ctx, quarter)
}

// CountUnsettled returns the number of pending and failed records
func (a *App) CountUnsettled(ctx context.Context) (int, int, error) {
	return a.repo.CountUnsettled(ctx)
}
