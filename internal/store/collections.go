package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/simpletab/tabsync/internal/domain"
)

const (
	collectionPrefix = "collection:"

	// Index key: collection:idx:space:<spaceID>:<collectionID> -> collection id.
	collectionSpaceIndexPrefix = "collection:idx:space:"
)

// ErrCollectionNotFound is returned when a collection is not found in the store.
var ErrCollectionNotFound = errors.New("collection not found")

func collectionSpaceIndexKey(spaceID, collectionID string) []byte {
	return []byte(collectionSpaceIndexPrefix + spaceID + ":" + collectionID)
}

// ListCollections returns all collections across all spaces.
func (s *Store) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	return listPrefix[domain.Collection](s, ctx, collectionPrefix)
}

// ListCollectionsBySpace returns all collections belonging to a space.
func (s *Store) ListCollectionsBySpace(ctx context.Context, spaceID string) ([]*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Collect ids from the space index, then load each record.
	indexPrefix := []byte(collectionSpaceIndexPrefix + spaceID + ":")

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = indexPrefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(indexPrefix); it.ValidForPrefix(indexPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list collections by space: %w", err)
	}

	collections := make([]*domain.Collection, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCollection(ctx, id)
		if errors.Is(err, ErrCollectionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, nil
}

// GetCollection retrieves a collection by ID.
func (s *Store) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Collection
	err := s.get([]byte(collectionPrefix+id), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &c, nil
}

// UpsertCollection creates or replaces a collection, keeping the space
// index consistent when the collection moved between spaces.
func (s *Store) UpsertCollection(ctx context.Context, c *domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(collectionPrefix + c.ID)

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		// Drop the old space index entry when the collection moved.
		item, err := txn.Get(key)
		if err == nil {
			var old domain.Collection
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &old)
			}); err != nil {
				return err
			}
			if old.SpaceID != c.SpaceID {
				if err := txn.Delete(collectionSpaceIndexKey(old.SpaceID, c.ID)); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(collectionSpaceIndexKey(c.SpaceID, c.ID), []byte(c.ID))
	})
	if err != nil {
		return fmt.Errorf("upsert collection: %w", err)
	}

	if s.searchIndexer != nil {
		spaceName := ""
		if space, err := s.GetSpace(ctx, c.SpaceID); err == nil {
			spaceName = space.Name
		}
		if err := s.searchIndexer.IndexCollection(ctx, c, spaceName); err != nil && s.logger != nil {
			s.logger.Warn("failed to index collection", "id", c.ID, "error", err)
		}
	}
	return nil
}

// DeleteCollection deletes a collection by ID.
// This operation is idempotent - deleting a missing collection is not an error.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(collectionPrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var c domain.Collection
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		}); err != nil {
			return err
		}

		if err := txn.Delete(collectionSpaceIndexKey(c.SpaceID, id)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteCollection(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove collection from index", "id", id, "error", err)
		}
	}
	return nil
}
