package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/simpletab/tabsync/internal/domain"
)

// Settings are a singleton record.
const settingsKey = "settings:user"

// GetSettings retrieves the user settings, creating defaults on first
// access so callers never see a missing record.
func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var settings domain.Settings
	err := s.get([]byte(settingsKey), &settings)
	if errors.Is(err, badger.ErrKeyNotFound) {
		defaults := domain.NewSettings()
		if err := s.set([]byte(settingsKey), defaults); err != nil {
			return nil, fmt.Errorf("initialize settings: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// UpsertSettings replaces the user settings.
func (s *Store) UpsertSettings(ctx context.Context, settings *domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set([]byte(settingsKey), settings); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
