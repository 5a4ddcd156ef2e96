package notifications

import (
	"context"
	"sync"
	"time"
)

// MetricsCollector defines the interface for collecting notification metrics
type MetricsCollector interface {
	RecordSend(success bool, duration time.Duration)
	RecordDispatch(quarter, sent, failed int, duration time.Duration)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordSend(success bool, duration time.Duration)                {}
func (n *NoOpMetricsCollector) RecordDispatch(quarter, sent, failed int, duration time.Duration) {}

// CounterMetrics keeps running totals in memory for the health endpoint.
type CounterMetrics struct {
	mu         sync.Mutex
	sends      int64
	sendErrors int64
	dispatches int64
	lastSend   time.Duration
}

func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{}
}

func (m *CounterMetrics) RecordSend(success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
	if !success {
		m.sendErrors++
	}
	m.lastSend = duration
}

func (m *CounterMetrics) RecordDispatch(quarter, sent, failed int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches++
}

// Snapshot returns sends, send errors and dispatches so far.
func (m *CounterMetrics) Snapshot() (sends, sendErrors, dispatches int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends, m.sendErrors, m.dispatches
}

// MetricMailer wraps a Mailer with metrics collection
type MetricMailer struct {
	mailer  Mailer
	metrics MetricsCollector
}

func NewMetricMailer(mailer Mailer, metrics MetricsCollector) *MetricMailer {
	return &MetricMailer{
		mailer:  mailer,
		metrics: metrics,
	}
}

func (m *MetricMailer) Send(ctx context.Context, msg Message) error {
	start := time.Now()

	err := m.mailer.Send(ctx, msg)

	m.metrics.RecordSend(err == nil, time.Since(start))
	return err
}
