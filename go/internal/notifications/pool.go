package notifications

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	workChannelBufferSize = 16
	defaultStopGrace      = 30 * time.Second
)

// QuarterDispatcher is what a pool worker runs for each submitted quarter.
type QuarterDispatcher interface {
	DispatchForQuarter(ctx context.Context, quarter int) (*DispatchSummary, error)
}

// PoolStats is a point-in-time view of the pool.
type PoolStats struct {
	Running   bool       `json:"running"`
	Workers   int        `json:"workers"`
	Queued    int        `json:"queued"`
	Processed int64      `json:"processed"`
	Errors    int64      `json:"errors"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}

// Pool runs quarter dispatches on its own workers, detached from whoever
// submitted them. Completion is only observable through the ledger.
type Pool struct {
	dispatcher QuarterDispatcher
	metrics    MetricsCollector
	numWorkers int
	stopGrace  time.Duration

	mu      sync.Mutex
	running bool
	workCh  chan int
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	processed atomic.Int64
	errors    atomic.Int64
	lastRun   atomic.Pointer[time.Time]
}

func NewPool(dispatcher QuarterDispatcher, numWorkers int, metrics MetricsCollector) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	return &Pool{
		dispatcher: dispatcher,
		metrics:    metrics,
		numWorkers: numWorkers,
		stopGrace:  defaultStopGrace,
	}
}

// Start launches the workers. Tasks run on a context derived from ctx, not
// from the request that submitted them.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.workCh = make(chan int, workChannelBufferSize)
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(workerCtx, p.workCh, i)
	}

	log.Info().Int("workers", p.numWorkers).Msg("notification pool started")
}

// Submit queues a dispatch for quarter without blocking. It returns false
// when the pool is stopped or the queue is full.
func (p *Pool) Submit(quarter int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		log.Warn().Int("quarter", quarter).Msg("notification pool not running, dropping dispatch")
		return false
	}

	select {
	case p.workCh <- quarter:
		log.Debug().Int("quarter", quarter).Msg("dispatch queued")
		return true
	default:
		log.Warn().Int("quarter", quarter).Msg("work channel full, dropping dispatch")
		return false
	}
}

// Stop lets the workers drain queued work for up to the grace period, then
// cancels whatever is still in flight and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.workCh)
	p.mu.Unlock()

	log.Info().Msg("shutting down notification workers")

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(p.stopGrace)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		log.Warn().Dur("grace", p.stopGrace).Msg("notification workers still busy, cancelling in-flight dispatch")
		p.cancel()
		<-done
	}
	p.cancel()
	log.Info().Msg("all notification workers shut down")
}

func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	stats := PoolStats{
		Running: p.running,
		Workers: p.numWorkers,
	}
	if p.running {
		stats.Queued = len(p.workCh)
	}
	p.mu.Unlock()

	stats.Processed = p.processed.Load()
	stats.Errors = p.errors.Load()
	stats.LastRunAt = p.lastRun.Load()
	return stats
}

func (p *Pool) worker(ctx context.Context, workCh <-chan int, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker_id", workerID).Msg("notification worker shutting down")
			return
		case quarter, ok := <-workCh:
			if !ok {
				log.Debug().Int("worker_id", workerID).Msg("work channel closed, worker shutting down")
				return
			}
			p.run(ctx, workerID, quarter)
		}
	}
}

func (p *Pool) run(ctx context.Context, workerID, quarter int) {
	start := time.Now()
	summary, err := p.dispatcher.DispatchForQuarter(ctx, quarter)
	duration := time.Since(start)

	finished := time.Now().UTC()
	p.lastRun.Store(&finished)
	p.processed.Add(1)

	if err != nil {
		p.errors.Add(1)
		p.metrics.RecordDispatch(quarter, 0, 0, duration)
		log.Error().
			Err(err).
			Int("quarter", quarter).
			Int("worker_id", workerID).
			Msg("quarter dispatch failed")
		return
	}

	p.metrics.RecordDispatch(quarter, summary.Sent, summary.Failed, duration)
}
