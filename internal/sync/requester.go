package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Requester coalesces sync requests from local mutations. A burst of
// writes produces a single bidirectional sync once the window elapses.
// RequestSync never blocks; the sync runs on its own goroutine.
type Requester struct {
	engine   *Engine
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewRequester creates a requester around the engine. A zero debounce
// falls back to 2s, wide enough to cover a typical editing burst.
func NewRequester(engine *Engine, debounce time.Duration, logger *slog.Logger) *Requester {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Requester{
		engine:   engine,
		debounce: debounce,
		logger:   logger,
	}
}

// RequestSync schedules a bidirectional sync. Requests landing while a
// timer is already pending are absorbed by it.
func (r *Requester) RequestSync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		return
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		r.timer = nil
		r.mu.Unlock()

		result := r.engine.Bidirectional(context.Background())
		if !result.OK && r.logger != nil {
			r.logger.Warn("background sync failed", "reason", result.Reason)
		}
	})
}

// Stop cancels any pending sync request.
func (r *Requester) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
