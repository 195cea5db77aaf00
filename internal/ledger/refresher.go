package ledger

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Refresher reloads the ledger on a fixed interval and after writes, and
// keeps the most recent snapshot. Overlapping reloads are dropped by the
// Engine; nothing is queued and running loads are never cancelled.
type Refresher struct {
	engine   *Engine
	interval time.Duration

	latest atomic.Pointer[Snapshot]

	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
	pending *time.Timer
}

// NewRefresher creates a stopped Refresher. An interval of zero or less
// disables the periodic reload.
func NewRefresher(engine *Engine, interval time.Duration) *Refresher {
	return &Refresher{engine: engine, interval: interval, stop: make(chan struct{})}
}

// Start begins periodic reloads.
func (r *Refresher) Start() {
	if r.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Trigger()
			case <-r.stop:
				return
			}
		}
	}()
}

// Refresh loads synchronously and caches the result. The bool is false when
// another load was already running.
func (r *Refresher) Refresh(ctx context.Context) (Snapshot, bool, error) {
	snap, started, err := r.engine.Load(ctx)
	if err != nil {
		log.Printf("Error refreshing ledger: %v", err)
		return snap, started, err
	}
	if started {
		r.latest.Store(&snap)
	}
	return snap, started, nil
}

// Trigger starts a background reload unless one is running or the
// Refresher was stopped. It reports whether a reload was started.
func (r *Refresher) Trigger() bool {
	if r.isStopped() || r.engine.Loading() {
		return false
	}
	go func() {
		_, _, _ = r.Refresh(context.Background())
	}()
	return true
}

// TriggerAfter schedules a Trigger after delay. Scheduling again before the
// timer fires pushes the reload back.
func (r *Refresher) TriggerAfter(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.pending != nil {
		r.pending.Reset(delay)
		return
	}
	r.pending = time.AfterFunc(delay, func() { r.Trigger() })
}

// Latest returns the most recent cached snapshot.
func (r *Refresher) Latest() (Snapshot, bool) {
	snap := r.latest.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// Stop ends periodic and scheduled reloads. A reload already running
// finishes on its own.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.stop)
	if r.pending != nil {
		r.pending.Stop()
	}
}

func (r *Refresher) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
