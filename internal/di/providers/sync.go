package providers

import (
	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/service"
	"github.com/simpletab/tabsync/internal/session"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// ProvideSyncEngine provides the push/pull engine.
func ProvideSyncEngine(i do.Injector) (*syncpkg.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*remote.Client](i)
	sess := do.MustInvoke[*session.GoTrue](i)

	engine := syncpkg.NewEngine(storeHandle.Store, client, sess, log.Logger, cfg.Sync.RealtimeDebounce)
	engine.SetNotifier(do.MustInvoke[*SSEManagerHandle](i).Manager)
	if !cfg.Sync.Enabled {
		engine.SetDisabled(true)
	}
	return engine, nil
}

// SyncRequesterHandle wraps the requester with shutdown capability.
type SyncRequesterHandle struct {
	*syncpkg.Requester
}

// Shutdown implements do.Shutdownable.
func (h *SyncRequesterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideSyncRequester provides the debounced mutation-driven sync
// trigger used by the data service.
func ProvideSyncRequester(i do.Injector) (*SyncRequesterHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	engine := do.MustInvoke[*syncpkg.Engine](i)

	return &SyncRequesterHandle{Requester: syncpkg.NewRequester(engine, 0, log.Logger)}, nil
}

// ProvideDataService provides the local CRUD service with remote
// deletion propagation and background sync requests wired in.
func ProvideDataService(i do.Injector) (*service.DataService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*remote.Client](i)
	sess := do.MustInvoke[*session.GoTrue](i)
	requester := do.MustInvoke[*SyncRequesterHandle](i)

	return service.NewDataService(storeHandle.Store, client, sess, requester, log.Logger), nil
}
