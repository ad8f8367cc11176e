package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/simpletab/tabsync/internal/domain"
)

// Index wraps a Bleve index with collection-specific operations.
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Open creates or opens the search index at path. An empty path opens
// an in-memory index (used in tests). A corrupted on-disk index is
// removed and recreated; collections reindex on the next pull or
// mutation.
func Open(path string, logger *slog.Logger) (*Index, error) {
	var index bleve.Index
	var err error

	if path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: index, logger: logger}, nil
	}

	if _, statErr := os.Stat(path); statErr == nil {
		index, err = bleve.Open(path)
		if err != nil {
			if logger != nil {
				logger.Warn("failed to open existing search index, recreating", "path", path, "error", err)
			}
			if removeErr := os.RemoveAll(path); removeErr != nil {
				return nil, fmt.Errorf("remove corrupt index: %w", removeErr)
			}
			index = nil
		}
	}

	if index == nil {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if logger != nil {
			logger.Info("created search index", "path", path)
		}
	}

	return &Index{index: index, path: path, logger: logger}, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}

// IndexCollection indexes or reindexes one collection. Implements the
// store's SearchIndexer hook.
func (ix *Index) IndexCollection(ctx context.Context, c *domain.Collection, spaceName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	doc := NewDocument(c, spaceName)
	return ix.index.Index(doc.ID, doc.ToMap())
}

// DeleteCollection removes a collection from the index.
func (ix *Index) DeleteCollection(ctx context.Context, collectionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.Delete(collectionID)
}

// DocumentCount returns the number of indexed collections.
func (ix *Index) DocumentCount() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.DocCount()
}
