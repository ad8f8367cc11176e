// Package di provides dependency injection configuration for the
// tabsync agent.
package di

import (
	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/di/providers"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/service"
	"github.com/simpletab/tabsync/internal/session"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Events
	do.Provide(injector, providers.ProvideSSEManager)

	// Storage layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)

	// Remote backend
	do.Provide(injector, providers.ProvideSession)
	do.Provide(injector, providers.ProvideRemoteClient)

	// Sync layer
	do.Provide(injector, providers.ProvideSyncEngine)
	do.Provide(injector, providers.ProvideSyncRequester)

	// Business services
	do.Provide(injector, providers.ProvideDataService)

	// Startup tasks
	do.Provide(injector, providers.ProvideBootstrap)

	// Workers
	do.Provide(injector, providers.ProvidePeriodicSyncJob)
	do.Provide(injector, providers.ProvideRealtimeJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the agent is
// serving. This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*session.GoTrue](injector)
	_ = do.MustInvoke[*remote.Client](injector)
	_ = do.MustInvoke[*syncpkg.Engine](injector)
	_ = do.MustInvoke[*providers.SyncRequesterHandle](injector)
	_ = do.MustInvoke[*service.DataService](injector)

	if _, err := do.Invoke[*providers.Bootstrap](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.PeriodicSyncJob](injector)
	_ = do.MustInvoke[*providers.RealtimeJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
