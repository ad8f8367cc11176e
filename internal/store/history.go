package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/simpletab/tabsync/internal/domain"
)

// History is stored as a single newest-first list, capped at
// domain.HistoryLimit entries.
const historyKey = "history:entries"

// ListHistory returns the tab history, newest first.
func (s *Store) ListHistory(ctx context.Context) ([]*domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []*domain.HistoryEntry
	err := s.get([]byte(historyKey), &entries)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []*domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// AddHistoryEntry prepends an entry and trims the list to the cap.
func (s *Store) AddHistoryEntry(ctx context.Context, entry *domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.ListHistory(ctx)
	if err != nil {
		return err
	}

	entries = append([]*domain.HistoryEntry{entry}, entries...)
	if len(entries) > domain.HistoryLimit {
		entries = entries[:domain.HistoryLimit]
	}

	if err := s.set([]byte(historyKey), entries); err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}
	return nil
}

// ReplaceHistory replaces the full history list, trimming to the cap.
// Used when pulling remote history.
func (s *Store) ReplaceHistory(ctx context.Context, entries []*domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(entries) > domain.HistoryLimit {
		entries = entries[:domain.HistoryLimit]
	}

	if err := s.set([]byte(historyKey), entries); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
