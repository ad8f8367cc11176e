package sync

import (
	"context"
	"sync"
	"time"
)

// StartRealtime subscribes to remote change notifications and turns
// them into debounced pulls: the first event in a window schedules a
// pull, later events ride along without extending the wait.
//
// The returned stop function cancels any pending pull and closes the
// subscription; calling it repeatedly is safe.
func (e *Engine) StartRealtime(ctx context.Context) (func(), error) {
	if e.Disabled() {
		if e.logger != nil {
			e.logger.Info("realtime skipped", "reason", "sync disabled")
		}
		return func() {}, nil
	}

	unsubscribe, err := e.remote.SubscribeChanges(ctx, func(table string) {
		e.schedulePull(ctx, table)
	})
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Info("realtime subscription started", "debounce", e.debounce)
	}

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			e.timerMu.Lock()
			if e.timer != nil {
				e.timer.Stop()
				e.timer = nil
			}
			e.timerMu.Unlock()

			unsubscribe()
			if e.logger != nil {
				e.logger.Info("realtime subscription stopped")
			}
		})
	}, nil
}

// schedulePull arms the debounce timer unless one is already pending.
func (e *Engine) schedulePull(ctx context.Context, table string) {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()

	if e.timer != nil {
		return
	}

	if e.logger != nil {
		e.logger.Debug("scheduling pull after remote change", "table", table)
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		e.timerMu.Lock()
		e.timer = nil
		e.timerMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		result := e.Pull(ctx)
		if !result.OK && e.logger != nil {
			e.logger.Warn("realtime pull failed", "reason", result.Reason)
		}
	})
}
