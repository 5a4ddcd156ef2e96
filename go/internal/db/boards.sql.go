package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createBoard = `
INSERT INTO boards (id, name, active, created_at)
VALUES ($1, $2, $3, $4)
`

type CreateBoardParams struct {
	ID        uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
}

func (q *Queries) CreateBoard(ctx context.Context, arg CreateBoardParams) error {
	_, err := q.db.ExecContext(ctx, createBoard, arg.ID, arg.Name, arg.Active, arg.CreatedAt)
	return err
}

const boardColumns = `id, name, row_digits, col_digits, digits_locked, active, created_at`

func scanBoard(row interface{ Scan(...interface{}) error }) (Board, error) {
	var b Board
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.RowDigits,
		&b.ColDigits,
		&b.DigitsLocked,
		&b.Active,
		&b.CreatedAt,
	)
	return b, err
}

const getBoard = `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`

func (q *Queries) GetBoard(ctx context.Context, id uuid.UUID) (Board, error) {
	return scanBoard(q.db.QueryRowContext(ctx, getBoard, id))
}

const listActiveBoards = `SELECT ` + boardColumns + ` FROM boards WHERE active = TRUE ORDER BY created_at, name`

func (q *Queries) ListActiveBoards(ctx context.Context) ([]Board, error) {
	rows, err := q.db.QueryContext(ctx, listActiveBoards)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setBoardDigits = `
UPDATE boards
SET row_digits = $1, col_digits = $2
WHERE id = $3 AND digits_locked = FALSE
`

type SetBoardDigitsParams struct {
	RowDigits pqtype.NullRawMessage
	ColDigits pqtype.NullRawMessage
	ID        uuid.UUID
}

// SetBoardDigits only touches unlocked boards; zero rows affected means the
// board is locked or missing.
func (q *Queries) SetBoardDigits(ctx context.Context, arg SetBoardDigitsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setBoardDigits, arg.RowDigits, arg.ColDigits, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setBoardDigitsLocked = `UPDATE boards SET digits_locked = $1 WHERE id = $2`

func (q *Queries) SetBoardDigitsLocked(ctx context.Context, locked bool, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, setBoardDigitsLocked, locked, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const claimCell = `
INSERT INTO cells (board_id, row_idx, col_idx, owner_name, owner_email, secondary_label, paid, claimed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT DO NOTHING
`

type ClaimCellParams struct {
	BoardID        uuid.UUID
	RowIdx         int32
	ColIdx         int32
	OwnerName      sql.NullString
	OwnerEmail     sql.NullString
	SecondaryLabel sql.NullString
	Paid           bool
	ClaimedAt      sql.NullTime
}

// ClaimCell returns zero rows affected when the cell is already taken.
func (q *Queries) ClaimCell(ctx context.Context, arg ClaimCellParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, claimCell,
		arg.BoardID,
		arg.RowIdx,
		arg.ColIdx,
		arg.OwnerName,
		arg.OwnerEmail,
		arg.SecondaryLabel,
		arg.Paid,
		arg.ClaimedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getCell = `
SELECT board_id, row_idx, col_idx, owner_name, owner_email, secondary_label, paid, claimed_at
FROM cells
WHERE board_id = $1 AND row_idx = $2 AND col_idx = $3
`

type GetCellParams struct {
	BoardID uuid.UUID
	RowIdx  int32
	ColIdx  int32
}

func (q *Queries) GetCell(ctx context.Context, arg GetCellParams) (Cell, error) {
	row := q.db.QueryRowContext(ctx, getCell, arg.BoardID, arg.RowIdx, arg.ColIdx)
	var c Cell
	err := row.Scan(
		&c.BoardID,
		&c.RowIdx,
		&c.ColIdx,
		&c.OwnerName,
		&c.OwnerEmail,
		&c.SecondaryLabel,
		&c.Paid,
		&c.ClaimedAt,
	)
	return c, err
}

const countClaimedCells = `
SELECT COUNT(*)
FROM cells c
WHERE c.owner_name IS NOT NULL AND c.owner_name <> ''
`

func (q *Queries) CountClaimedCells(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countClaimedCells).Scan(&count)
	return count, err
}

const listClaimedContacts = `
SELECT c.owner_email, MIN(c.owner_name)
FROM cells c
JOIN boards b ON b.id = c.board_id
WHERE b.active = TRUE AND c.owner_email IS NOT NULL AND c.owner_email <> ''
GROUP BY c.owner_email
ORDER BY c.owner_email
`

type ListClaimedContactsRow struct {
	OwnerEmail string
	OwnerName  sql.NullString
}

func (q *Queries) ListClaimedContacts(ctx context.Context) ([]ListClaimedContactsRow, error) {
	rows, err := q.db.QueryContext(ctx, listClaimedContacts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListClaimedContactsRow
	for rows.Next() {
		var i ListClaimedContactsRow
		if err := rows.Scan(&i.OwnerEmail, &i.OwnerName); err != nil {
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
