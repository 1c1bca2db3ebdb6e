// Package refresher runs periodic dataset rebuilds in the background
package refresher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teamsignal/burnout-engine/internal/engine"
)

// refreshTimeout bounds one background cycle, covering the model save
const refreshTimeout = 2 * time.Minute

// Refresher triggers engine refreshes on a fixed interval. The startup
// refresh belongs to the caller; the worker's first cycle fires after
// one full interval.
type Refresher struct {
	engine   engine.Engine
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRefresher creates a refresh worker. An interval of zero or less
// disables periodic refresh.
func NewRefresher(eng engine.Engine, interval time.Duration) *Refresher {
	return &Refresher{
		engine:   eng,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start() {
	if r.interval <= 0 {
		slog.Info("periodic refresh disabled")
		close(r.done)
		return
	}

	go r.run()
}

// Stop halts the worker and waits for an in-flight cycle to finish
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// run is the main loop for the refresh worker
func (r *Refresher) run() {
	defer close(r.done)

	slog.Info("refresh worker started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			slog.Info("refresh worker stopped")
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

// refresh runs one cycle. Failures are logged and the worker keeps
// ticking; the previous snapshot stays in service.
func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := r.engine.Refresh(ctx)
	if err != nil {
		slog.Error("periodic refresh failed", "error", err)
		return
	}

	slog.Info("periodic refresh completed",
		"snapshot_id", result.Snapshot.ID,
		"rows", result.Snapshot.Rows,
		"model_id", result.Model.ID,
	)
}
