package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
)

// highFailedCount marks the ledger unhealthy-looking without failing the check.
const highFailedCount = 100

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthStatus struct {
	Healthy           bool
	DatabaseConnected bool
	NATSConnected     bool
	PoolRunning       bool
	PendingRecords    int
	FailedRecords     int
	Pool              PoolStats
	Errors            []string
}

// HealthChecker reports on the ledger, its database and the dispatch pool.
type HealthChecker struct {
	db       Pinger
	ledger   *App
	pool     *Pool
	natsConn *nats.Conn
}

// NewHealthChecker creates a checker. natsConn may be nil when events are disabled.
func NewHealthChecker(db Pinger, ledger *App, pool *Pool, natsConn *nats.Conn) *HealthChecker {
	return &HealthChecker{
		db:       db,
		ledger:   ledger,
		pool:     pool,
		natsConn: natsConn,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.natsConn != nil {
		status.NATSConnected = h.natsConn.IsConnected()
		if !status.NATSConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	status.Pool = h.pool.Stats()
	status.PoolRunning = status.Pool.Running
	if !status.PoolRunning {
		status.Healthy = false
		status.Errors = append(status.Errors, "notification pool not running")
	}

	if status.DatabaseConnected {
		pending, failed, err := h.ledger.CountUnsettled(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("failed to count ledger records: %v", err))
		} else {
			status.PendingRecords = pending
			status.FailedRecords = failed
			if failed > highFailedCount {
				status.Errors = append(status.Errors, fmt.Sprintf("high failed notification count: %d", failed))
			}
		}
	}

	return status
}

// HTTP handler helper
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	response := map[string]interface{}{
		"healthy":            status.Healthy,
		"database_connected": status.DatabaseConnected,
		"nats_connected":     status.NATSConnected,
		"pool_running":       status.PoolRunning,
		"pending_records":    status.PendingRecords,
		"failed_records":     status.FailedRecords,
		"dispatches":         status.Pool.Processed,
		"dispatch_errors":    status.Pool.Errors,
		"last_dispatch_at":   status.Pool.LastRunAt,
		"errors":             status.Errors,
	}

	w.Header().Set("Content-Type", "application/json")

	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}
