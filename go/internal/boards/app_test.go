package boards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/db/dbtest"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	repo := NewRepository(db.New(dbtest.Open(t)))
	return NewApp(repo, clockwork.NewFakeClockAt(time.Date(2026, 2, 8, 18, 0, 0, 0, time.UTC)))
}

func mustCreate(t *testing.T, app *App, name string) *models.Board {
	t.Helper()
	board, err := app.CreateBoard(context.Background(), CreateBoardRequest{Name: name, Active: true})
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	return board
}

func TestRandomizeDigitsIsBijection(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	board := mustCreate(t, app, "Main")

	for i := 0; i < 20; i++ {
		got, err := app.RandomizeDigits(ctx, board.ID)
		if err != nil {
			t.Fatalf("RandomizeDigits: %v", err)
		}
		if err := got.RowDigits.Validate(); err != nil {
			t.Fatalf("row digits %v: %v", got.RowDigits, err)
		}
		if err := got.ColDigits.Validate(); err != nil {
			t.Fatalf("col digits %v: %v", got.ColDigits, err)
		}
	}

	stored, err := app.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if !stored.HasDigits() {
		t.Fatal("expected the draw to be persisted")
	}
}

func TestLockedBoardRejectsNewDraw(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	board := mustCreate(t, app, "Main")

	drawn, err := app.RandomizeDigits(ctx, board.ID)
	if err != nil {
		t.Fatalf("RandomizeDigits: %v", err)
	}
	if err := app.LockDigits(ctx, board.ID); err != nil {
		t.Fatalf("LockDigits: %v", err)
	}

	if _, err := app.RandomizeDigits(ctx, board.ID); !errors.Is(err, ErrDigitsLocked) {
		t.Fatalf("expected ErrDigitsLocked, got %v", err)
	}
	explicit := models.Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if _, err := app.SetDigits(ctx, board.ID, explicit, explicit); !errors.Is(err, ErrDigitsLocked) {
		t.Fatalf("expected ErrDigitsLocked for explicit draw, got %v", err)
	}

	stored, err := app.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	for i := range drawn.RowDigits {
		if stored.RowDigits[i] != drawn.RowDigits[i] || stored.ColDigits[i] != drawn.ColDigits[i] {
			t.Fatalf("locked draw changed: %v/%v vs %v/%v", stored.RowDigits, stored.ColDigits, drawn.RowDigits, drawn.ColDigits)
		}
	}

	if err := app.UnlockDigits(ctx, board.ID); err != nil {
		t.Fatalf("UnlockDigits: %v", err)
	}
	if _, err := app.SetDigits(ctx, board.ID, explicit, explicit); err != nil {
		t.Fatalf("draw after unlock: %v", err)
	}
}

func TestSetDigitsValidation(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	board := mustCreate(t, app, "Main")
	valid := models.Digits{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	tests := []struct {
		name string
		rows models.Digits
	}{
		{"too short", models.Digits{0, 1, 2}},
		{"duplicate", models.Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 8}},
		{"out of range", models.Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}},
		{"unset", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.SetDigits(ctx, board.ID, tt.rows, valid); !errors.Is(err, ErrInvalidDigits) {
				t.Errorf("expected ErrInvalidDigits, got %v", err)
			}
		})
	}
}

func TestLockWithoutDraw(t *testing.T) {
	app := newTestApp(t)
	board := mustCreate(t, app, "Empty")
	if err := app.LockDigits(context.Background(), board.ID); !errors.Is(err, ErrInvalidDigits) {
		t.Fatalf("expected ErrInvalidDigits, got %v", err)
	}
}

func TestUnknownBoard(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.RandomizeDigits(context.Background(), uuid.New()); !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestClaimCellsAndContacts(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	main := mustCreate(t, app, "Main")
	side := mustCreate(t, app, "Side")

	claims := []ClaimCellRequest{
		{BoardID: main.ID, Row: 0, Col: 9, OwnerName: "Alex", OwnerEmail: "Alex@Example.com"},
		{BoardID: main.ID, Row: 3, Col: 3, OwnerName: "Alex", OwnerEmail: "alex@example.com"},
		{BoardID: side.ID, Row: 0, Col: 0, OwnerName: "Blake", OwnerEmail: "blake@example.com"},
		{BoardID: side.ID, Row: 5, Col: 5, OwnerName: "Cash buyer"},
	}
	for _, c := range claims {
		if _, err := app.ClaimCell(ctx, c); err != nil {
			t.Fatalf("ClaimCell(%+v): %v", c, err)
		}
	}

	if _, err := app.ClaimCell(ctx, ClaimCellRequest{BoardID: main.ID, Row: 0, Col: 9, OwnerName: "Late"}); !errors.Is(err, ErrCellTaken) {
		t.Fatalf("expected ErrCellTaken, got %v", err)
	}
	if _, err := app.ClaimCell(ctx, ClaimCellRequest{BoardID: main.ID, Row: 10, Col: 0, OwnerName: "Off"}); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}

	count, err := app.CountClaimedCells(ctx)
	if err != nil || count != 4 {
		t.Fatalf("CountClaimedCells = %d, %v", count, err)
	}

	contacts, err := app.ListClaimedContacts(ctx)
	if err != nil {
		t.Fatalf("ListClaimedContacts: %v", err)
	}
	if len(contacts) != 2 || contacts[0].Email != "alex@example.com" || contacts[1].Email != "blake@example.com" {
		t.Fatalf("contacts = %+v", contacts)
	}

	cell, err := app.GetCell(ctx, main.ID, 0, 9)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if cell.IsOpen() || *cell.OwnerName != "Alex" {
		t.Errorf("cell = %+v", cell)
	}
	open, err := app.GetCell(ctx, main.ID, 1, 1)
	if err != nil {
		t.Fatalf("GetCell open: %v", err)
	}
	if !open.IsOpen() {
		t.Errorf("expected open cell, got %+v", open)
	}
}
