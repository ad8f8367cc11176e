// Package service implements the operations behind the control API:
// CRUD over spaces, collections, and tabs, import/export, and search.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/id"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/store"
)

// DefaultSpaceName is the space created on first run.
const DefaultSpaceName = "Personal"

// Deleter is the remote surface used for deletion propagation.
// Deletions are the one place local changes remove remote rows; sync
// itself never deletes by absence.
type Deleter interface {
	Configured() bool
	DeleteTabsByCollection(ctx context.Context, collectionID string) error
	DeleteCollection(ctx context.Context, collectionID string) error
	FindWorkspaceByName(ctx context.Context, userID, name string) (*remote.WorkspaceRow, error)
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}

// Session identifies the current user for remote deletion scoping.
type Session interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Requester triggers a background sync after local mutations. The
// request must not block; implementations run the sync on their own
// goroutine and log failures.
type Requester interface {
	RequestSync()
}

// DataService owns local mutations and their side effects: sync
// requests after every write, and best-effort remote deletes.
type DataService struct {
	store   *store.Store
	remote  Deleter
	session Session
	syncer  Requester
	logger  *slog.Logger
}

// NewDataService creates the data service. remote, session, and syncer
// may be nil in local-only setups.
func NewDataService(st *store.Store, remote Deleter, session Session, syncer Requester, logger *slog.Logger) *DataService {
	return &DataService{
		store:   st,
		remote:  remote,
		session: session,
		syncer:  syncer,
		logger:  logger,
	}
}

// EnsureDefaultSpace creates the default space when the store has none.
func (s *DataService) EnsureDefaultSpace(ctx context.Context) error {
	spaces, err := s.store.ListSpaces(ctx)
	if err != nil {
		return err
	}
	if len(spaces) > 0 {
		return nil
	}

	space := domain.NewSpace(id.Slug(DefaultSpaceName), DefaultSpaceName, "", "")
	if err := s.store.CreateSpace(ctx, space); err != nil {
		return fmt.Errorf("create default space: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("created default space", "name", DefaultSpaceName)
	}
	return nil
}

// requestSync asks for a background sync after a mutation.
func (s *DataService) requestSync() {
	if s.syncer != nil {
		s.syncer.RequestSync()
	}
}

// ListSpaces returns all spaces.
func (s *DataService) ListSpaces(ctx context.Context) ([]*domain.Space, error) {
	return s.store.ListSpaces(ctx)
}

// GetSpace returns a space by id.
func (s *DataService) GetSpace(ctx context.Context, spaceID string) (*domain.Space, error) {
	return s.store.GetSpace(ctx, spaceID)
}

// CreateSpace creates a space. The id is the slugified name when free,
// otherwise a generated one.
func (s *DataService) CreateSpace(ctx context.Context, name, color, icon string) (*domain.Space, error) {
	if name == "" {
		return nil, errors.New("space name is required")
	}

	spaceID := id.Slug(name)
	if spaceID == "" {
		spaceID = id.MustGenerate("space")
	} else if _, err := s.store.GetSpace(ctx, spaceID); err == nil {
		spaceID = id.MustGenerate("space")
	}

	space := domain.NewSpace(spaceID, name, color, icon)
	if err := s.store.CreateSpace(ctx, space); err != nil {
		return nil, err
	}

	s.requestSync()
	return space, nil
}

// UpdateSpace updates a space's name and cosmetics.
func (s *DataService) UpdateSpace(ctx context.Context, spaceID, name, color, icon string) (*domain.Space, error) {
	space, err := s.store.GetSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		space.Name = name
	}
	if color != "" {
		space.Color = color
	}
	if icon != "" {
		space.Icon = icon
	}
	space.UpdatedAt = time.Now().UTC()

	if err := s.store.UpsertSpace(ctx, space); err != nil {
		return nil, err
	}

	s.requestSync()
	return space, nil
}

// DeleteSpace deletes a space and its collections locally, then
// propagates the deletion remotely. Remote failures are logged and
// swallowed; the local delete already happened and the remote copy
// will linger until deleted there.
func (s *DataService) DeleteSpace(ctx context.Context, spaceID string) error {
	space, err := s.store.GetSpace(ctx, spaceID)
	if errors.Is(err, store.ErrSpaceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	collections, err := s.store.ListCollectionsBySpace(ctx, spaceID)
	if err != nil {
		return err
	}
	for _, c := range collections {
		if err := s.store.DeleteCollection(ctx, c.ID); err != nil {
			return err
		}
	}
	if err := s.store.DeleteSpace(ctx, spaceID); err != nil {
		return err
	}

	s.propagateSpaceDeletion(ctx, space.Name, collections)
	s.requestSync()
	return nil
}

func (s *DataService) propagateSpaceDeletion(ctx context.Context, spaceName string, collections []*domain.Collection) {
	if s.remote == nil || !s.remote.Configured() {
		return
	}

	for _, c := range collections {
		s.propagateCollectionDeletion(ctx, c.ID)
	}

	userID := s.currentUserID(ctx)
	if userID == "" {
		return
	}
	ws, err := s.remote.FindWorkspaceByName(ctx, userID, spaceName)
	if err != nil || ws == nil {
		if err != nil && s.logger != nil {
			s.logger.Warn("failed to resolve remote workspace for deletion", "space", spaceName, "error", err)
		}
		return
	}
	if err := s.remote.DeleteWorkspace(ctx, ws.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to delete remote workspace", "space", spaceName, "error", err)
	}
}

func (s *DataService) propagateCollectionDeletion(ctx context.Context, collectionID string) {
	if s.remote == nil || !s.remote.Configured() {
		return
	}
	if err := s.remote.DeleteTabsByCollection(ctx, collectionID); err != nil && s.logger != nil {
		s.logger.Warn("failed to delete remote tabs", "collection", collectionID, "error", err)
	}
	if err := s.remote.DeleteCollection(ctx, collectionID); err != nil && s.logger != nil {
		s.logger.Warn("failed to delete remote collection", "collection", collectionID, "error", err)
	}
}

func (s *DataService) currentUserID(ctx context.Context) string {
	if s.session == nil {
		return ""
	}
	userID, err := s.session.CurrentUserID(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("session lookup failed during deletion", "error", err)
		}
		return ""
	}
	return userID
}

// ListCollections returns all collections, optionally scoped to a space.
func (s *DataService) ListCollections(ctx context.Context, spaceID string) ([]*domain.Collection, error) {
	if spaceID == "" {
		return s.store.ListCollections(ctx)
	}
	return s.store.ListCollectionsBySpace(ctx, spaceID)
}

// GetCollection returns a collection by id.
func (s *DataService) GetCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	return s.store.GetCollection(ctx, collectionID)
}

// CreateCollection creates a collection in a space, empty or seeded
// with tabs.
func (s *DataService) CreateCollection(ctx context.Context, name, spaceID string, tabs []domain.Tab) (*domain.Collection, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	if _, err := s.store.GetSpace(ctx, spaceID); err != nil {
		return nil, err
	}

	for i := range tabs {
		if tabs[i].ID == "" {
			tabs[i].ID = id.NewUUID()
		}
		if tabs[i].AddedAt.IsZero() {
			tabs[i].AddedAt = time.Now().UTC()
		}
	}

	coll := domain.NewCollection(id.NewUUID(), name, spaceID, tabs)
	if err := s.store.UpsertCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.requestSync()
	return coll, nil
}

// UpdateCollection renames a collection or moves it to another space.
func (s *DataService) UpdateCollection(ctx context.Context, collectionID, name, spaceID string) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		coll.Name = name
	}
	if spaceID != "" {
		if _, err := s.store.GetSpace(ctx, spaceID); err != nil {
			return nil, err
		}
		coll.SpaceID = spaceID
	}
	coll.Touch()

	if err := s.store.UpsertCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.requestSync()
	return coll, nil
}

// DeleteCollection deletes a collection locally and propagates the
// deletion remotely, best-effort.
func (s *DataService) DeleteCollection(ctx context.Context, collectionID string) error {
	if _, err := s.store.GetCollection(ctx, collectionID); errors.Is(err, store.ErrCollectionNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return err
	}

	s.propagateCollectionDeletion(ctx, collectionID)
	s.requestSync()
	return nil
}

// AddTab appends a tab to a collection.
func (s *DataService) AddTab(ctx context.Context, collectionID string, tab domain.Tab) (*domain.Collection, error) {
	if tab.URL == "" {
		return nil, errors.New("tab url is required")
	}

	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if tab.ID == "" {
		tab.ID = id.NewUUID()
	}
	if tab.Title == "" {
		tab.Title = tab.URL
	}
	if tab.AddedAt.IsZero() {
		tab.AddedAt = time.Now().UTC()
	}

	coll.Tabs = append(coll.Tabs, tab)
	coll.Touch()

	if err := s.store.UpsertCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.requestSync()
	return coll, nil
}

// RemoveTab removes a tab from a collection by tab id.
func (s *DataService) RemoveTab(ctx context.Context, collectionID, tabID string) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	idx := coll.FindTab(tabID)
	if idx < 0 {
		return nil, fmt.Errorf("tab %s not found in collection %s", tabID, collectionID)
	}

	coll.Tabs = append(coll.Tabs[:idx], coll.Tabs[idx+1:]...)
	coll.Touch()

	if err := s.store.UpsertCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.requestSync()
	return coll, nil
}

// MoveTab moves a tab to a new position within its collection.
func (s *DataService) MoveTab(ctx context.Context, collectionID, tabID string, newIndex int) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	idx := coll.FindTab(tabID)
	if idx < 0 {
		return nil, fmt.Errorf("tab %s not found in collection %s", tabID, collectionID)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(coll.Tabs) {
		newIndex = len(coll.Tabs) - 1
	}

	tab := coll.Tabs[idx]
	coll.Tabs = append(coll.Tabs[:idx], coll.Tabs[idx+1:]...)
	coll.Tabs = append(coll.Tabs[:newIndex], append([]domain.Tab{tab}, coll.Tabs[newIndex:]...)...)
	coll.Touch()

	if err := s.store.UpsertCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.requestSync()
	return coll, nil
}

// GetSettings returns the user settings.
func (s *DataService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings replaces the user settings.
func (s *DataService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	if err := s.store.UpsertSettings(ctx, settings); err != nil {
		return err
	}
	s.requestSync()
	return nil
}

// ListHistory returns the tab history, newest first.
func (s *DataService) ListHistory(ctx context.Context) ([]*domain.HistoryEntry, error) {
	return s.store.ListHistory(ctx)
}

// RecordHistory adds a visited tab to the history.
func (s *DataService) RecordHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = id.NewUUID()
	}
	if entry.Title == "" {
		entry.Title = entry.URL
	}
	if err := s.store.AddHistoryEntry(ctx, entry); err != nil {
		return err
	}
	s.requestSync()
	return nil
}
