package providers

import (
	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/search"
	"github.com/simpletab/tabsync/internal/store"
)

// SearchIndexHandle wraps the bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text collection index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ix, err := search.Open(cfg.SearchIndexPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Search index opened", "path", cfg.SearchIndexPath())

	return &SearchIndexHandle{Index: ix}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the local badger store with search indexing
// wired in. Collection writes keep the index current.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)

	db, err := store.New(cfg.StorePath(), log.Logger)
	if err != nil {
		return nil, err
	}
	db.SetSearchIndexer(searchHandle.Index)

	log.Info("Local store initialized", "path", cfg.StorePath())

	return &StoreHandle{Store: db}, nil
}
