package boards

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateBoard(ctx context.Context, arg db.CreateBoardParams) error
	GetBoard(ctx context.Context, id uuid.UUID) (db.Board, error)
	ListActiveBoards(ctx context.Context) ([]db.Board, error)
	SetBoardDigits(ctx context.Context, arg db.SetBoardDigitsParams) (int64, error)
	SetBoardDigitsLocked(ctx context.Context, locked bool, id uuid.UUID) (int64, error)
	ClaimCell(ctx context.Context, arg db.ClaimCellParams) (int64, error)
	GetCell(ctx context.Context, arg db.GetCellParams) (db.Cell, error)
	CountClaimedCells(ctx context.Context) (int64, error)
	ListClaimedContacts(ctx context.Context) ([]db.ListClaimedContactsRow, error)
}

// Repository implements board and cell data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new boards repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateBoard inserts a board without a digit draw
func (r *Repository) CreateBoard(ctx context.Context, req CreateBoardRequest, createdAt time.Time) (*models.Board, error) {
	params := db.CreateBoardParams{
		ID:        uuid.New(),
		Name:      req.Name,
		Active:    req.Active,
		CreatedAt: createdAt,
	}
	if err := r.queries.CreateBoard(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return &models.Board{
		ID:        params.ID,
		Name:      params.Name,
		Active:    params.Active,
		CreatedAt: params.CreatedAt,
	}, nil
}

// GetBoard retrieves a board by ID
func (r *Repository) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	dbBoard, err := r.queries.GetBoard(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return r.dbBoardToModel(dbBoard)
}

// ListActiveBoards retrieves every board taking part in the game
func (r *Repository) ListActiveBoards(ctx context.Context) ([]models.Board, error) {
	dbBoards, err := r.queries.ListActiveBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active boards: %w", err)
	}

	boards := make([]models.Board, 0, len(dbBoards))
	for _, dbBoard := range dbBoards {
		board, err := r.dbBoardToModel(dbBoard)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	return boards, nil
}

// SetDigits stores both permutations unless the board is locked
func (r *Repository) SetDigits(ctx context.Context, id uuid.UUID, rowDigits, colDigits models.Digits) error {
	rowJSON, err := digitsToJSON(rowDigits)
	if err != nil {
		return err
	}
	colJSON, err := digitsToJSON(colDigits)
	if err != nil {
		return err
	}

	n, err := r.queries.SetBoardDigits(ctx, db.SetBoardDigitsParams{
		RowDigits: rowJSON,
		ColDigits: colJSON,
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("failed to set board digits: %w", err)
	}
	if n == 0 {
		return ErrDigitsLocked
	}
	return nil
}

// SetDigitsLocked toggles the lock gating digit changes
func (r *Repository) SetDigitsLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	n, err := r.queries.SetBoardDigitsLocked(ctx, locked, id)
	if err != nil {
		return fmt.Errorf("failed to set board lock: %w", err)
	}
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// ClaimCell assigns an open cell to an owner
func (r *Repository) ClaimCell(ctx context.Context, req ClaimCellRequest, claimedAt time.Time) (*models.Cell, error) {
	params := db.ClaimCellParams{
		BoardID:        req.BoardID,
		RowIdx:         int32(req.Row),
		ColIdx:         int32(req.Col),
		OwnerName:      sqlutil.ToSqlString(&req.OwnerName),
		OwnerEmail:     sqlutil.ToSqlString(&req.OwnerEmail),
		SecondaryLabel: sqlutil.ToSqlString(req.SecondaryLabel),
		Paid:           req.Paid,
		ClaimedAt:      sqlutil.ToSqlTime(&claimedAt),
	}

	n, err := r.queries.ClaimCell(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to claim cell: %w", err)
	}
	if n == 0 {
		return nil, ErrCellTaken
	}
	return r.dbCellToModel(db.Cell{
		BoardID:        params.BoardID,
		RowIdx:         params.RowIdx,
		ColIdx:         params.ColIdx,
		OwnerName:      params.OwnerName,
		OwnerEmail:     params.OwnerEmail,
		SecondaryLabel: params.SecondaryLabel,
		Paid:           params.Paid,
		ClaimedAt:      params.ClaimedAt,
	}), nil
}

// GetCell returns the cell at (row, col); an unclaimed cell has no owner
func (r *Repository) GetCell(ctx context.Context, boardID uuid.UUID, row, col int) (*models.Cell, error) {
	dbCell, err := r.queries.GetCell(ctx, db.GetCellParams{
		BoardID: boardID,
		RowIdx:  int32(row),
		ColIdx:  int32(col),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Cell{BoardID: boardID, Row: row, Col: col}, nil
		}
		return nil, fmt.Errorf("failed to get cell: %w", err)
	}
	return r.dbCellToModel(dbCell), nil
}

// CountClaimedCells counts owned cells across all active boards
func (r *Repository) CountClaimedCells(ctx context.Context) (int, error) {
	n, err := r.queries.CountClaimedCells(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count claimed cells: %w", err)
	}
	return int(n), nil
}

// ListClaimedContacts returns each distinct claimant email once
func (r *Repository) ListClaimedContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := r.queries.ListClaimedContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimed contacts: %w", err)
	}

	contacts := make([]models.Contact, len(rows))
	for i, row := range rows {
		contacts[i] = models.Contact{
			Name:  sqlutil.FromSqlString(row.OwnerName, ""),
			Email: row.OwnerEmail,
		}
	}
	return contacts, nil
}

// dbBoardToModel converts a database board to domain model
func (r *Repository) dbBoardToModel(dbBoard db.Board) (*models.Board, error) {
	rowDigits, err := digitsFromJSON(dbBoard.RowDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode row digits of board %s: %w", dbBoard.ID, err)
	}
	colDigits, err := digitsFromJSON(dbBoard.ColDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode col digits of board %s: %w", dbBoard.ID, err)
	}

	return &models.Board{
		ID:           dbBoard.ID,
		Name:         dbBoard.Name,
		RowDigits:    rowDigits,
		ColDigits:    colDigits,
		DigitsLocked: dbBoard.DigitsLocked,
		Active:       dbBoard.Active,
		CreatedAt:    dbBoard.CreatedAt,
	}, nil
}

// dbCellToModel converts a database cell to domain model
func (r *Repository) dbCellToModel(dbCell db.Cell) *models.Cell {
	return &models.Cell{
		BoardID:        dbCell.BoardID,
		Row:            int(dbCell.RowIdx),
		Col:            int(dbCell.ColIdx),
		OwnerName:      sqlutil.FromSqlStringPtr(dbCell.OwnerName),
		OwnerEmail:     sqlutil.FromSqlStringPtr(dbCell.OwnerEmail),
		SecondaryLabel: sqlutil.FromSqlStringPtr(dbCell.SecondaryLabel),
		Paid:           dbCell.Paid,
		ClaimedAt:      sqlutil.FromSqlTime(dbCell.ClaimedAt),
	}
}

func digitsToJSON(d models.Digits) (pqtype.NullRawMessage, error) {
	if d == nil {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal([]int(d))
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to encode digits: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

func digitsFromJSON(raw pqtype.NullRawMessage) (models.Digits, error) {
	if !raw.Valid || len(raw.RawMessage) == 0 {
		return nil, nil
	}
	var d []int
	if err := json.Unmarshal(raw.RawMessage, &d); err != nil {
		return nil, err
	}
	return models.Digits(d), nil
}
