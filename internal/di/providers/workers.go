package providers

import (
	"context"
	"errors"
	"time"

	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/service"
	"github.com/simpletab/tabsync/internal/session"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// PeriodicSyncJob runs a bidirectional sync on a fixed interval.
type PeriodicSyncJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *PeriodicSyncJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvidePeriodicSyncJob provides the interval sync worker. It idles
// when the remote backend is not configured.
func ProvidePeriodicSyncJob(i do.Injector) (*PeriodicSyncJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	engine := do.MustInvoke[*syncpkg.Engine](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &PeriodicSyncJob{cancel: cancel, done: make(chan struct{})}

	if !cfg.Sync.Enabled || !cfg.RemoteConfigured() {
		close(job.done)
		log.Info("Periodic sync idle", "sync_enabled", cfg.Sync.Enabled, "remote_configured", cfg.RemoteConfigured())
		return job, nil
	}

	go func() {
		defer close(job.done)
		ticker := time.NewTicker(cfg.Sync.Interval)
		defer ticker.Stop()

		log.Info("Periodic sync started", "interval", cfg.Sync.Interval)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result := engine.Bidirectional(ctx)
				if !result.OK {
					log.Warn("Periodic sync failed", "reason", result.Reason)
				}
			}
		}
	}()

	return job, nil
}

// RealtimeJob holds the realtime subscription's stop function.
type RealtimeJob struct {
	stop func()
}

// Shutdown implements do.Shutdownable.
func (j *RealtimeJob) Shutdown() error {
	j.stop()
	return nil
}

// ProvideRealtimeJob subscribes to remote change notifications. A
// failed subscription is logged and the agent runs without realtime;
// periodic sync still converges state.
func ProvideRealtimeJob(i do.Injector) (*RealtimeJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	engine := do.MustInvoke[*syncpkg.Engine](i)

	if !cfg.Sync.Enabled || !cfg.RemoteConfigured() {
		return &RealtimeJob{stop: func() {}}, nil
	}

	stop, err := engine.StartRealtime(context.Background())
	if err != nil {
		log.Warn("Realtime subscription failed, continuing without it", "error", err)
		return &RealtimeJob{stop: func() {}}, nil
	}
	return &RealtimeJob{stop: stop}, nil
}

// Bootstrap holds startup results.
type Bootstrap struct {
	SignedIn bool
}

// ProvideBootstrap signs in when credentials are configured, seeds the
// default space, and runs an initial pull so a fresh install starts
// from the remote state.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sess := do.MustInvoke[*session.GoTrue](i)
	data := do.MustInvoke[*service.DataService](i)
	engine := do.MustInvoke[*syncpkg.Engine](i)

	ctx := context.Background()
	boot := &Bootstrap{}

	if cfg.RemoteConfigured() && cfg.Supabase.Email != "" {
		if err := sess.SignIn(ctx); err != nil {
			if !errors.Is(err, session.ErrNotSignedIn) {
				log.Warn("Sign-in failed, running local-only", "error", err)
			}
		} else {
			boot.SignedIn = true
			log.Info("Signed in", "email", cfg.Supabase.Email)
		}
	}

	if err := data.EnsureDefaultSpace(ctx); err != nil {
		return nil, err
	}

	if boot.SignedIn && cfg.Sync.Enabled {
		if result := engine.Pull(ctx); !result.OK {
			log.Warn("Initial pull failed", "reason", result.Reason)
		}
	}

	return boot, nil
}
