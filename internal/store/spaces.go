package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/simpletab/tabsync/internal/domain"
)

// Key prefixes for BadgerDB.
const (
	spacePrefix = "space:"

	// Index key: space:idx:name:<normalized name> -> space id.
	// Space names are the cross-store merge key, so the index is
	// case-insensitive.
	spaceNameIndexPrefix = "space:idx:name:"
)

// ErrSpaceNotFound is returned when a space is not found in the store.
var ErrSpaceNotFound = errors.New("space not found")

// ErrDuplicateSpaceName is returned when creating a space whose name is
// already taken (case-insensitively) by another space.
var ErrDuplicateSpaceName = errors.New("space name already exists")

// ListSpaces returns all spaces.
func (s *Store) ListSpaces(ctx context.Context) ([]*domain.Space, error) {
	return listPrefix[domain.Space](s, ctx, spacePrefix)
}

// GetSpace retrieves a space by ID.
func (s *Store) GetSpace(ctx context.Context, id string) (*domain.Space, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var space domain.Space
	err := s.get([]byte(spacePrefix+id), &space)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space: %w", err)
	}
	return &space, nil
}

// GetSpaceByName retrieves a space by case-insensitive name.
func (s *Store) GetSpaceByName(ctx context.Context, name string) (*domain.Space, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexKey := []byte(spaceNameIndexPrefix + domain.NormalizeName(name))

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSpaceNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetSpace(ctx, id)
}

// CreateSpace creates a new space.
// Returns ErrDuplicateSpaceName if a space with the same name exists.
func (s *Store) CreateSpace(ctx context.Context, space *domain.Space) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(spacePrefix + space.ID)
	indexKey := []byte(spaceNameIndexPrefix + domain.NormalizeName(space.Name))

	data, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("failed to marshal space: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("space %s: already exists", space.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if _, err := txn.Get(indexKey); err == nil {
			return ErrDuplicateSpaceName
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(space.ID))
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("space created", "id", space.ID, "name", space.Name)
	}
	return nil
}

// UpsertSpace creates or replaces a space, keeping the name index
// consistent when the space was renamed.
func (s *Store) UpsertSpace(ctx context.Context, space *domain.Space) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(spacePrefix + space.ID)
	newIndexKey := []byte(spaceNameIndexPrefix + domain.NormalizeName(space.Name))

	data, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("failed to marshal space: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Drop the old name index entry on rename.
		item, err := txn.Get(key)
		if err == nil {
			var old domain.Space
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &old)
			}); err != nil {
				return err
			}
			if domain.NormalizeName(old.Name) != domain.NormalizeName(space.Name) {
				oldIndexKey := []byte(spaceNameIndexPrefix + domain.NormalizeName(old.Name))
				if err := txn.Delete(oldIndexKey); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(newIndexKey, []byte(space.ID))
	})
}

// DeleteSpace deletes a space by ID.
// This operation is idempotent - deleting a missing space is not an error.
// Cascading deletion of the space's collections is the data service's
// responsibility, not the store's.
func (s *Store) DeleteSpace(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(spacePrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var space domain.Space
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &space)
		}); err != nil {
			return err
		}

		indexKey := []byte(spaceNameIndexPrefix + domain.NormalizeName(space.Name))
		if err := txn.Delete(indexKey); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("space deleted", "id", id)
	}
	return nil
}
