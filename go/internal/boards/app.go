package boards

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// BoardsRepository defines what the app layer needs from the repository
type BoardsRepository interface {
	CreateBoard(ctx context.Context, req CreateBoardRequest, createdAt time.Time) (*models.Board, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error)
	ListActiveBoards(ctx context.Context) ([]models.Board, error)
	SetDigits(ctx context.Context, id uuid.UUID, rowDigits, colDigits models.Digits) error
	SetDigitsLocked(ctx context.Context, id uuid.UUID, locked bool) error
	ClaimCell(ctx context.Context, req ClaimCellRequest, claimedAt time.Time) (*models.Cell, error)
	GetCell(ctx context.Context, boardID uuid.UUID, row, col int) (*models.Cell, error)
	CountClaimedCells(ctx context.Context) (int, error)
	ListClaimedContacts(ctx context.Context) ([]models.Contact, error)
}

// App handles board business logic
type App struct {
	repo  BoardsRepository
	clock clockwork.Clock
	perm  func(n int) []int
}

// NewApp creates a new boards App
func NewApp(repo BoardsRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
		perm:  rand.Perm,
	}
}

// CreateBoard creates an empty board
func (a *App) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("validation failed: board name is required")
	}

	board, err := a.repo.CreateBoard(ctx, req, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	log.Info().Str("board_id", board.ID.String()).Str("name", board.Name).Msg("board created")
	return board, nil
}

// GetBoard retrieves a board by ID
func (a *App) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	return a.repo.GetBoard(ctx, id)
}

// ListActiveBoards retrieves every board taking part in the game
func (a *App) ListActiveBoards(ctx context.Context) ([]models.Board, error) {
	return a.repo.ListActiveBoards(ctx)
}

// RandomizeDigits draws fresh row and column permutations for an unlocked board
func (a *App) RandomizeDigits(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	return a.SetDigits(ctx, id, models.Digits(a.perm(10)), models.Digits(a.perm(10)))
}

// SetDigits stores an explicit draw. Both sequences must be permutations of 0-9.
func (a *App) SetDigits(ctx context.Context, id uuid.UUID, rowDigits, colDigits models.Digits) (*models.Board, error) {
	if err := rowDigits.Validate(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrInvalidDigits, err)
	}
	if err := colDigits.Validate(); err != nil {
		return nil, fmt.Errorf("%w: cols: %v", ErrInvalidDigits, err)
	}

	board, err := a.repo.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.DigitsLocked {
		return nil, ErrDigitsLocked
	}

	if err := a.repo.SetDigits(ctx, id, rowDigits, colDigits); err != nil {
		return nil, err
	}

	board.RowDigits = rowDigits
	board.ColDigits = colDigits

	log.Info().
		Str("board_id", id.String()).
		Ints("row_digits", rowDigits).
		Ints("col_digits", colDigits).
		Msg("board digits drawn")

	return board, nil
}

// LockDigits freezes the draw; a board without a draw cannot be locked.
func (a *App) LockDigits(ctx context.Context, id uuid.UUID) error {
	board, err := a.repo.GetBoard(ctx, id)
	if err != nil {
		return err
	}
	if !board.HasDigits() {
		return fmt.Errorf("%w: board %s has no draw to lock", ErrInvalidDigits, id)
	}
	if err := a.repo.SetDigitsLocked(ctx, id, true); err != nil {
		return err
	}

	log.Info().Str("board_id", id.String()).Msg("board digits locked")
	return nil
}

// UnlockDigits allows a new draw
func (a *App) UnlockDigits(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.SetDigitsLocked(ctx, id, false); err != nil {
		return err
	}

	log.Warn().Str("board_id", id.String()).Msg("board digits unlocked")
	return nil
}

// ClaimCell assigns an open cell. Emails are stored lowercased.
func (a *App) ClaimCell(ctx context.Context, req ClaimCellRequest) (*models.Cell, error) {
	if req.Row < 0 || req.Row > 9 || req.Col < 0 || req.Col > 9 {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, req.Row, req.Col)
	}
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	if req.OwnerName == "" {
		return nil, fmt.Errorf("%w: owner name is required", ErrInvalidCell)
	}
	req.OwnerEmail = strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	if req.OwnerEmail != "" {
		if _, err := mail.ParseAddress(req.OwnerEmail); err != nil {
			return nil, fmt.Errorf("%w: bad email %q", ErrInvalidCell, req.OwnerEmail)
		}
	}

	cell, err := a.repo.ClaimCell(ctx, req, a.clock.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrCellTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to claim cell: %w", err)
	}
	return cell, nil
}

// GetCell returns the cell at (row, col) of a board
func (a *App) GetCell(ctx context.Context, boardID uuid.UUID, row, col int) (*models.Cell, error) {
	return a.repo.GetCell(ctx, boardID, row, col)
}

// CountClaimedCells counts owned cells across every board, active or not
func (a *App) CountClaimedCells(ctx context.Context) (int, error) {
	return a.repo.CountClaimedCells(ctx)
}

// ListClaimedContacts returns each distinct claimant email once
func (a *App) ListClaimedContacts(ctx context.Context) ([]models.Contact, error) {
	return a.repo.ListClaimedContacts(ctx)
}
