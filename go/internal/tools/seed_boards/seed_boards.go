package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stevemarchese/superbowl-squares/go/internal/dbconfig"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// Board mirrors the JSON snapshot
type Board struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Active    bool          `json:"active"`
	RowDigits models.Digits `json:"row_digits"`
	ColDigits models.Digits `json:"col_digits"`
	Locked    bool          `json:"digits_locked"`
	Cells     []Cell        `json:"cells"`
}

type Cell struct {
	Row            int     `json:"row"`
	Col            int     `json:"col"`
	OwnerName      string  `json:"owner_name"`
	OwnerEmail     string  `json:"owner_email"`
	SecondaryLabel *string `json:"secondary_label"`
	Paid           bool    `json:"paid"`
}

func main() {
	_ = godotenv.Load()

	path := "go/internal/assets/boards.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var boards []Board
	if err := json.Unmarshal(data, &boards); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	if cfg.Driver != dbconfig.DriverPostgres {
		fmt.Fprintf(os.Stderr, "seed_boards needs DB_DRIVER=postgres, got %q\n", cfg.Driver)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert boards and their cells, one transaction per board
	var (
		inserted int
		skipped  int
		cells    int
		errs     int
	)
	now := time.Now().UTC()

	for _, b := range boards {
		n, err := seedBoard(ctx, pool, b, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error seeding board %q: %v\n", b.Name, err)
			errs++
			continue
		}
		if n < 0 {
			skipped++
			continue
		}
		inserted++
		cells += n
	}

	// 4) Print summary
	fmt.Printf(
		"Boards seed complete: %d total, %d inserted, %d skipped, %d cells, %d errors\n",
		len(boards), inserted, skipped, cells, errs,
	)
}

// seedBoard returns the number of claimed cells written, or -1 when the
// board already exists.
func seedBoard(ctx context.Context, pool *pgxpool.Pool, b Board, now time.Time) (int, error) {
	if b.Name == "" {
		return 0, fmt.Errorf("board name is required")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	rowDigits, err := digitsJSON(b.RowDigits)
	if err != nil {
		return 0, fmt.Errorf("row digits: %w", err)
	}
	colDigits, err := digitsJSON(b.ColDigits)
	if err != nil {
		return 0, fmt.Errorf("col digits: %w", err)
	}
	if (rowDigits == nil) != (colDigits == nil) {
		return 0, fmt.Errorf("row and col digits must be set together")
	}

	written := 0
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            INSERT INTO boards (id, name, row_digits, col_digits, digits_locked, active, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (id) DO NOTHING
        `, b.ID, b.Name, rowDigits, colDigits, b.Locked && rowDigits != nil, b.Active, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			written = -1
			return nil
		}

		for _, c := range b.Cells {
			if c.Row < 0 || c.Row > 9 || c.Col < 0 || c.Col > 9 || c.OwnerName == "" {
				return fmt.Errorf("invalid cell (%d,%d)", c.Row, c.Col)
			}
			var email *string
			if c.OwnerEmail != "" {
				e := c.OwnerEmail
				email = &e
			}
			if _, err := tx.Exec(ctx, `
                INSERT INTO cells (board_id, row_idx, col_idx, owner_name, owner_email, secondary_label, paid, claimed_at)
                VALUES ($1, $2, $3, $4, LOWER($5), $6, $7, $8)
            `, b.ID, c.Row, c.Col, c.OwnerName, email, c.SecondaryLabel, c.Paid, now); err != nil {
				return fmt.Errorf("cell (%d,%d): %w", c.Row, c.Col, err)
			}
			written++
		}
		return nil
	})
	return written, err
}

func digitsJSON(d models.Digits) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(d)
}
