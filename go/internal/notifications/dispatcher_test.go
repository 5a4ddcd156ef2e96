package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stevemarchese/superbowl-squares/go/internal/boards"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/db/dbtest"
	"github.com/stevemarchese/superbowl-squares/go/internal/game"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

type stubMailer struct {
	mu    sync.Mutex
	sent  []Message
	fail  map[string]bool
	delay time.Duration
}

func (m *stubMailer) Send(ctx context.Context, msg Message) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) setFail(email string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail == nil {
		m.fail = map[string]bool{}
	}
	m.fail[email] = fail
}

func (m *stubMailer) messagesTo(email string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.sent {
		if msg.To == email {
			out = append(out, msg)
		}
	}
	return out
}

type fixture struct {
	boards     *boards.App
	game       *game.App
	ledger     *App
	mailer     *stubMailer
	dispatcher *Dispatcher
	board      *models.Board
}

// newFixture seeds one board with a fixed draw, a winner for 14-7 at
// (0,9) and one other claimant, and stores Q1 = 14-7.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn := dbtest.Open(t)
	queries := db.New(conn)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 8, 20, 0, 0, 0, time.UTC))

	f := &fixture{
		boards: boards.NewApp(boards.NewRepository(queries), clock),
		game:   game.NewApp(game.NewRepository(queries), clock),
		ledger: NewApp(NewRepository(queries), clock),
		mailer: &stubMailer{},
	}
	f.dispatcher = NewDispatcher(f.game, f.boards, f.ledger, f.mailer)

	board, err := f.boards.CreateBoard(ctx, boards.CreateBoardRequest{Name: "Main", Active: true})
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	rows := models.Digits{7, 2, 5, 0, 9, 4, 1, 8, 3, 6}
	cols := models.Digits{3, 0, 9, 2, 7, 1, 6, 8, 5, 4}
	if f.board, err = f.boards.SetDigits(ctx, board.ID, rows, cols); err != nil {
		t.Fatalf("SetDigits: %v", err)
	}

	f.claim(t, 0, 9, "Alice", "Alice@Example.com")
	f.claim(t, 3, 3, "Bob", "bob@example.com")

	if err := f.game.SetQuarterScores(ctx, 1, models.QuarterScore{Team1: 14, Team2: 7}); err != nil {
		t.Fatalf("SetQuarterScores: %v", err)
	}
	return f
}

func (f *fixture) claim(t *testing.T, row, col int, name, email string) {
	t.Helper()
	_, err := f.boards.ClaimCell(context.Background(), boards.ClaimCellRequest{
		BoardID:    f.board.ID,
		Row:        row,
		Col:        col,
		OwnerName:  name,
		OwnerEmail: email,
	})
	if err != nil {
		t.Fatalf("ClaimCell(%d,%d): %v", row, col, err)
	}
}

func TestDispatchWinnerAndParticipants(t *testing.T) {
	f := newFixture(t)

	summary, err := f.dispatcher.DispatchForQuarter(context.Background(), 1)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	if summary.Sent != 2 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	// 2 claimed cells * $10 * 25%
	if summary.Prize != 5 {
		t.Errorf("prize = %v, want 5", summary.Prize)
	}

	alice := f.mailer.messagesTo("alice@example.com")
	if len(alice) != 1 {
		t.Fatalf("alice got %d messages, want 1", len(alice))
	}
	if !strings.Contains(alice[0].Subject, "You won Q1") {
		t.Errorf("alice should get the winner mail, got %q", alice[0].Subject)
	}
	if !strings.Contains(alice[0].TextBody, "$5.00") {
		t.Errorf("winner mail missing prize: %s", alice[0].TextBody)
	}

	bob := f.mailer.messagesTo("bob@example.com")
	if len(bob) != 1 {
		t.Fatalf("bob got %d messages, want 1", len(bob))
	}
	if !strings.Contains(bob[0].TextBody, "Main: Alice (row 0, column 9)") {
		t.Errorf("participant mail missing winner line: %s", bob[0].TextBody)
	}
}

func TestDispatchSecondRunSkipsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.dispatcher.DispatchForQuarter(ctx, 1); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	summary, err := f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if summary.Sent != 0 || summary.Skipped != 2 {
		t.Fatalf("second dispatch should skip both recipients: %+v", summary)
	}
}

func TestConcurrentDispatchSendsOncePerKey(t *testing.T) {
	f := newFixture(t)
	f.mailer.delay = 5 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.dispatcher.DispatchForQuarter(ctx, 1); err != nil {
				t.Errorf("DispatchForQuarter: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		if got := len(f.mailer.messagesTo(email)); got != 1 {
			t.Errorf("%s received %d messages, want 1", email, got)
		}
	}

	records, err := f.ledger.Records(ctx, 1)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	sent := map[string]int{}
	for _, rec := range records {
		if rec.Status == models.NotificationStatusSent {
			sent[string(rec.Kind)+"/"+rec.RecipientEmail]++
		}
	}
	if len(sent) != 2 {
		t.Fatalf("expected two sent keys, got %v", sent)
	}
	for key, n := range sent {
		if n != 1 {
			t.Errorf("key %s has %d sent records", key, n)
		}
	}
}

func TestFailedSendContinuesAndRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.setFail("alice@example.com", true)

	summary, err := f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	if summary.Failed != 1 || summary.Sent != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	// a failed winner is still covered and gets no participant mail
	if got := len(f.mailer.messagesTo("alice@example.com")); got != 0 {
		t.Fatalf("alice should have no delivered mail, got %d", got)
	}

	status, err := f.ledger.EmailStatus(ctx)
	if err != nil {
		t.Fatalf("EmailStatus: %v", err)
	}
	if status[0].Failed != 1 || status[0].Sent != 1 {
		t.Fatalf("Q1 status = %+v", status[0])
	}

	f.mailer.setFail("alice@example.com", false)
	summary, err = f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if summary.Sent != 1 || summary.Skipped != 1 {
		t.Fatalf("retry summary %+v", summary)
	}
	if got := len(f.mailer.messagesTo("alice@example.com")); got != 1 {
		t.Fatalf("alice should receive the retry, got %d", got)
	}
}

func TestPurgeAllowsResend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.dispatcher.DispatchForQuarter(ctx, 1); err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	n, err := f.ledger.PurgeQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("PurgeQuarter: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d records, want 2", n)
	}

	summary, err := f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	if summary.Sent != 2 {
		t.Fatalf("resend summary %+v", summary)
	}
}

func TestDispatchNoOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.dispatcher.DispatchForQuarter(ctx, 2)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	if summary.Sent+summary.Failed+summary.Skipped != 0 {
		t.Errorf("quarter without scores should do nothing: %+v", summary)
	}

	if err := f.game.SetNotifications(ctx, false); err != nil {
		t.Fatalf("SetNotifications: %v", err)
	}
	summary, err = f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	if !summary.Disabled || summary.Sent != 0 {
		t.Errorf("disabled notifications should do nothing: %+v", summary)
	}

	if _, err := f.dispatcher.DispatchForQuarter(ctx, 5); err == nil {
		t.Error("expected an error for quarter 5")
	}
}

type recordingDispatcher struct {
	mu       sync.Mutex
	quarters []int
	done     chan struct{}
}

func (d *recordingDispatcher) DispatchForQuarter(ctx context.Context, quarter int) (*DispatchSummary, error) {
	d.mu.Lock()
	d.quarters = append(d.quarters, quarter)
	d.mu.Unlock()
	d.done <- struct{}{}
	return &DispatchSummary{Quarter: quarter}, nil
}

func TestPoolRunsSubmittedQuarters(t *testing.T) {
	d := &recordingDispatcher{done: make(chan struct{}, 4)}
	pool := NewPool(d, 2, nil)

	if pool.Submit(1) {
		t.Fatal("submit before start should be rejected")
	}

	pool.Start(context.Background())
	if !pool.Running() {
		t.Fatal("pool should be running")
	}
	for _, q := range []int{1, 2} {
		if !pool.Submit(q) {
			t.Fatalf("Submit(%d) rejected", q)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-d.done:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch did not run")
		}
	}

	pool.Stop()
	if pool.Running() || pool.Submit(3) {
		t.Fatal("stopped pool must reject work")
	}
	if got := pool.Stats().Processed; got != 2 {
		t.Errorf("processed = %d, want 2", got)
	}
}

type stuckDispatcher struct {
	started chan struct{}
}

func (d *stuckDispatcher) DispatchForQuarter(ctx context.Context, quarter int) (*DispatchSummary, error) {
	d.started <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPoolStopCancelsStuckDispatch(t *testing.T) {
	d := &stuckDispatcher{started: make(chan struct{}, 1)}
	pool := NewPool(d, 1, nil)
	pool.stopGrace = 50 * time.Millisecond
	pool.Start(context.Background())

	if !pool.Submit(1) {
		t.Fatal("Submit rejected")
	}
	select {
	case <-d.started:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not start")
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked behind an in-flight dispatch")
	}
	if got := pool.Stats().Errors; got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
}

func TestPotCountsInactiveBoards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	retired, err := f.boards.CreateBoard(ctx, boards.CreateBoardRequest{Name: "Retired", Active: false})
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	for i, name := range []string{"Carol", "Dana"} {
		if _, err := f.boards.ClaimCell(ctx, boards.ClaimCellRequest{
			BoardID:    retired.ID,
			Row:        i,
			Col:        i,
			OwnerName:  name,
			OwnerEmail: strings.ToLower(name) + "@example.com",
		}); err != nil {
			t.Fatalf("ClaimCell: %v", err)
		}
	}

	summary, err := f.dispatcher.DispatchForQuarter(ctx, 1)
	if err != nil {
		t.Fatalf("DispatchForQuarter: %v", err)
	}
	// four claimed cells at 10.00, a quarter of the pot each
	if summary.Pot != 40 || summary.Prize != 10 {
		t.Errorf("pot = %v, prize = %v, want 40 and 10", summary.Pot, summary.Prize)
	}
	if got := f.mailer.messagesTo("carol@example.com"); len(got) != 0 {
		t.Errorf("inactive board claimant was mailed: %+v", got)
	}
	if summary.Sent != 2 {
		t.Errorf("sent = %d, want 2", summary.Sent)
	}
}
