// Package sync implements bidirectional synchronization between the
// local store and the Supabase backend.
//
// Neither direction deletes by absence: push never removes remote rows
// missing locally, pull never removes local records missing remotely.
// The remote is treated as primary; local data may be partial or
// offline. Deletions travel only through the data service's explicit
// propagation path.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/id"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/store"
)

// Remote is the backend surface the engine needs. Declared here so
// tests can substitute a fake.
type Remote interface {
	Configured() bool
	EnsureProfile(ctx context.Context, userID, email string) error
	ListWorkspaces(ctx context.Context, userID string) ([]remote.WorkspaceRow, error)
	FindWorkspaceByName(ctx context.Context, userID, name string) (*remote.WorkspaceRow, error)
	InsertWorkspace(ctx context.Context, row remote.WorkspaceRow) (string, error)
	UpdateWorkspace(ctx context.Context, workspaceID, color, icon string) error
	ListCollections(ctx context.Context, userID string) ([]remote.CollectionRow, error)
	UpsertCollection(ctx context.Context, row remote.CollectionRow) (string, error)
	DeleteTabsByCollection(ctx context.Context, collectionID string) error
	UpsertTabs(ctx context.Context, rows []remote.TabRow) error
	ListTabsByCollections(ctx context.Context, collectionIDs []string) ([]remote.TabRow, error)
	GetSettings(ctx context.Context, userID string) (*remote.SettingsRow, error)
	UpsertSettings(ctx context.Context, row remote.SettingsRow) error
	InsertHistory(ctx context.Context, rows []remote.HistoryRow) error
	ListHistory(ctx context.Context, userID string, limit int) ([]remote.HistoryRow, error)
	SubscribeChanges(ctx context.Context, handler remote.ChangeHandler) (func(), error)
}

// Session identifies the current user.
type Session interface {
	CurrentUserID(ctx context.Context) (string, error)
	CurrentUserEmail(ctx context.Context) (string, error)
}

// Notifier observes completed sync attempts, skips included.
type Notifier interface {
	SyncCompleted(op string, result Result)
}

// Engine coordinates push and pull between the local store and the
// remote backend.
type Engine struct {
	store    *store.Store
	remote   Remote
	session  Session
	logger   *slog.Logger
	notifier Notifier

	// debounce is the realtime pull coalescing window.
	debounce time.Duration

	mu       sync.Mutex
	syncing  bool
	disabled bool

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewEngine creates a sync engine. A zero debounce falls back to the
// default 500ms window.
func NewEngine(st *store.Store, rem Remote, sess Session, logger *slog.Logger, debounce time.Duration) *Engine {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Engine{
		store:    st,
		remote:   rem,
		session:  sess,
		logger:   logger,
		debounce: debounce,
	}
}

// SetNotifier registers a sync event observer. Call before the engine
// starts handling requests.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

func (e *Engine) notify(op string, res Result) {
	if e.notifier != nil {
		e.notifier.SyncCompleted(op, res)
	}
}

// SetDisabled toggles the sync kill switch. While disabled, every
// push, pull, and realtime trigger is skipped.
func (e *Engine) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
	if e.logger != nil {
		if disabled {
			e.logger.Info("sync disabled")
		} else {
			e.logger.Info("sync enabled")
		}
	}
}

// Disabled reports the kill switch state.
func (e *Engine) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// Syncing reports whether a push is in progress.
func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// beginPush sets the syncing flag. Returns false when sync is disabled
// or another push already holds the flag.
func (e *Engine) beginPush() (ok bool, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disabled {
		return false, "sync disabled"
	}
	if e.syncing {
		return false, "sync already in progress"
	}
	e.syncing = true
	return true, ""
}

func (e *Engine) endPush() {
	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()
}

// identify resolves the current user, distinguishing "cannot sync"
// conditions from transport errors.
func (e *Engine) identify(ctx context.Context) (userID, email string, res Result, ok bool) {
	if !e.remote.Configured() {
		return "", "", Failure("remote backend not configured"), false
	}

	userID, err := e.session.CurrentUserID(ctx)
	if err != nil {
		return "", "", Failure("session lookup failed: " + err.Error()), false
	}
	if userID == "" {
		return "", "", Failure("not signed in"), false
	}

	email, _ = e.session.CurrentUserEmail(ctx)
	return userID, email, Result{}, true
}

// Push uploads local state to the backend: profile, settings, spaces
// as workspaces, collections with their tabs, and history.
func (e *Engine) Push(ctx context.Context) Result {
	res := e.push(ctx)
	e.notify("push", res)
	return res
}

func (e *Engine) push(ctx context.Context) Result {
	if ok, reason := e.beginPush(); !ok {
		if e.logger != nil {
			e.logger.Info("push skipped", "reason", reason)
		}
		return Skip(reason)
	}
	defer e.endPush()

	userID, email, res, ok := e.identify(ctx)
	if !ok {
		return res
	}

	if err := e.remote.EnsureProfile(ctx, userID, email); err != nil {
		return Failure(err.Error())
	}

	if err := e.pushSettings(ctx, userID); err != nil {
		return Failure(err.Error())
	}

	spaces := e.localSpaces(ctx)
	if err := e.pushSpaces(ctx, userID, spaces); err != nil {
		return Failure(err.Error())
	}

	if err := e.pushCollections(ctx, userID, spaces); err != nil {
		return Failure(err.Error())
	}

	if err := e.pushHistory(ctx, userID); err != nil {
		return Failure(err.Error())
	}

	if e.logger != nil {
		e.logger.Info("push complete", "user", userID)
	}
	return Success()
}

// localSpaces reads local spaces, degrading to an empty list when the
// store read fails so a damaged space table doesn't block the push.
func (e *Engine) localSpaces(ctx context.Context) []*domain.Space {
	spaces, err := e.store.ListSpaces(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to read local spaces, treating as none", "error", err)
		}
		return nil
	}
	return spaces
}

func (e *Engine) pushSettings(ctx context.Context, userID string) error {
	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	return e.remote.UpsertSettings(ctx, remote.SettingsRow{
		UserID:          userID,
		Theme:           settings.Theme,
		ColorTheme:      settings.ColorTheme,
		AutoSaveEnabled: settings.AutoSaveEnabled,
		UpdatedAt:       time.Now().UTC(),
	})
}

// pushSpaces upserts each local space as a workspace, matched by name.
func (e *Engine) pushSpaces(ctx context.Context, userID string, spaces []*domain.Space) error {
	for _, s := range spaces {
		name := s.Name
		if name == "" {
			name = "Workspace"
		}
		color := s.Color
		if color == "" {
			color = domain.DefaultSpaceColor
		}
		icon := s.Icon
		if icon == "" {
			icon = domain.DefaultSpaceIcon
		}

		existing, err := e.remote.FindWorkspaceByName(ctx, userID, name)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := e.remote.UpdateWorkspace(ctx, existing.ID, color, icon); err != nil {
				return err
			}
		} else {
			if _, err := e.remote.InsertWorkspace(ctx, remote.WorkspaceRow{
				UserID: userID,
				Name:   name,
				Color:  color,
				Icon:   icon,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// pushCollections upserts each collection under its local id, with its
// tabs replaced wholesale.
func (e *Engine) pushCollections(ctx context.Context, userID string, spaces []*domain.Space) error {
	// Re-read workspaces so the name->id map includes rows just created.
	workspaces, err := e.remote.ListWorkspaces(ctx, userID)
	if err != nil {
		return err
	}
	idByName := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		idByName[ws.Name] = ws.ID
	}

	collections, err := e.store.ListCollections(ctx)
	if err != nil {
		return err
	}

	for _, coll := range collections {
		wsID, usedFallback := ResolveWorkspaceID(coll, spaces, idByName)
		if wsID == "" {
			if e.logger != nil {
				e.logger.Warn("collection has no workspace mapping, skipping",
					"collection", coll.Name, "spaceId", coll.SpaceID)
			}
			continue
		}
		if usedFallback && e.logger != nil {
			e.logger.Warn("collection space is invalid, using fallback workspace",
				"collection", coll.Name, "spaceId", coll.SpaceID)
		}

		name := coll.Name
		if name == "" {
			name = "Untitled"
		}
		remoteID, err := e.remote.UpsertCollection(ctx, remote.CollectionRow{
			ID:          coll.ID,
			UserID:      userID,
			WorkspaceID: wsID,
			Name:        name,
			CreatedAt:   coll.CreatedAt,
			UpdatedAt:   coll.UpdatedAt,
		})
		if err != nil {
			return err
		}
		if remoteID == "" {
			remoteID = coll.ID
		}

		if err := e.remote.DeleteTabsByCollection(ctx, remoteID); err != nil {
			return err
		}

		rows := make([]remote.TabRow, 0, len(coll.Tabs))
		for i, t := range coll.Tabs {
			tabID := t.ID
			if !id.IsUUID(tabID) {
				tabID = id.NewUUID()
			}
			title := t.Title
			if title == "" {
				title = t.URL
			}
			rows = append(rows, remote.TabRow{
				ID:           tabID,
				UserID:       userID,
				CollectionID: remoteID,
				URL:          t.URL,
				Title:        title,
				Favicon:      t.Favicon,
				OrderIndex:   i,
			})
		}
		if err := e.remote.UpsertTabs(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pushHistory(ctx context.Context, userID string) error {
	entries, err := e.store.ListHistory(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	rows := make([]remote.HistoryRow, 0, len(entries))
	for _, h := range entries {
		title := h.Title
		if title == "" {
			title = h.URL
		}
		ts := h.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		rows = append(rows, remote.HistoryRow{
			UserID:      userID,
			ClientTabID: h.ID,
			URL:         h.URL,
			Title:       title,
			Favicon:     h.Favicon,
			Timestamp:   ts,
		})
	}
	return e.remote.InsertHistory(ctx, rows)
}

// Pull downloads remote state into the local store. It refuses to run
// while a push is in progress.
//
// The collections section is the backbone of a pull: if its fetch
// fails the pull aborts with that reason. Workspaces, settings, and
// history are best-effort.
func (e *Engine) Pull(ctx context.Context) Result {
	res := e.pull(ctx)
	e.notify("pull", res)
	return res
}

func (e *Engine) pull(ctx context.Context) Result {
	e.mu.Lock()
	if e.disabled {
		e.mu.Unlock()
		if e.logger != nil {
			e.logger.Info("pull skipped", "reason", "sync disabled")
		}
		return Skip("sync disabled")
	}
	if e.syncing {
		e.mu.Unlock()
		if e.logger != nil {
			e.logger.Info("pull skipped", "reason", "push in progress")
		}
		return Skip("push in progress")
	}
	e.mu.Unlock()

	userID, _, res, ok := e.identify(ctx)
	if !ok {
		return res
	}

	spaceIDByWorkspace := e.pullSpaces(ctx, userID)

	if res := e.pullCollections(ctx, userID, spaceIDByWorkspace); !res.OK {
		return res
	}

	e.pullSettings(ctx, userID)
	e.pullHistory(ctx, userID)

	if e.logger != nil {
		e.logger.Info("pull complete", "user", userID)
	}
	return Success()
}

// pullSpaces merges remote workspaces into local spaces by
// case-insensitive name and returns the workspace-id to space-id map.
// Failures log and return an empty map; the pull continues.
func (e *Engine) pullSpaces(ctx context.Context, userID string) map[string]string {
	mapping := make(map[string]string)

	workspaces, err := e.remote.ListWorkspaces(ctx, userID)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to pull workspaces", "error", err)
		}
		return mapping
	}
	if len(workspaces) == 0 {
		return mapping
	}

	spaces, err := e.store.ListSpaces(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to read local spaces during pull", "error", err)
		}
		return mapping
	}
	byName := make(map[string]*domain.Space, len(spaces))
	for _, s := range spaces {
		byName[domain.NormalizeName(s.Name)] = s
	}

	for _, ws := range workspaces {
		color := ws.Color
		if color == "" {
			color = domain.DefaultSpaceColor
		}
		icon := ws.Icon
		if icon == "" {
			icon = domain.DefaultSpaceIcon
		}

		existing := byName[domain.NormalizeName(ws.Name)]
		if existing != nil {
			// Reuse the local id so collections stay linked. Remote wins
			// ties; cosmetic drift also forces the update.
			if !ws.UpdatedAt.Before(existing.UpdatedAt) || existing.Color != color || existing.Icon != icon {
				existing.Color = color
				existing.Icon = icon
				existing.UpdatedAt = time.Now().UTC()
				if err := e.store.UpsertSpace(ctx, existing); err != nil {
					if e.logger != nil {
						e.logger.Warn("failed to update space from workspace", "name", ws.Name, "error", err)
					}
					continue
				}
			}
			mapping[ws.ID] = existing.ID
			continue
		}

		localID := id.Slug(ws.Name)
		if localID == "" {
			localID = id.MustGenerate("space")
		} else if _, err := e.store.GetSpace(ctx, localID); err == nil {
			// Slug taken by a differently-named space.
			localID = id.MustGenerate("space")
		}

		space := domain.NewSpace(localID, ws.Name, color, icon)
		if err := e.store.UpsertSpace(ctx, space); err != nil {
			if e.logger != nil {
				e.logger.Warn("failed to create space from workspace", "name", ws.Name, "error", err)
			}
			continue
		}
		byName[domain.NormalizeName(space.Name)] = space
		mapping[ws.ID] = localID
	}

	return mapping
}

// pullCollections merges remote collections into the store. Existing
// collections update only when the remote copy is at least as new;
// a local edit that raced ahead survives until the next push.
func (e *Engine) pullCollections(ctx context.Context, userID string, spaceIDByWorkspace map[string]string) Result {
	rows, err := e.remote.ListCollections(ctx, userID)
	if err != nil {
		return Failure(err.Error())
	}

	collectionIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		collectionIDs = append(collectionIDs, r.ID)
	}

	tabRows, err := e.remote.ListTabsByCollections(ctx, collectionIDs)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to pull tabs", "error", err)
		}
		tabRows = nil
	}
	tabsByCollection := make(map[string][]remote.TabRow)
	for _, t := range tabRows {
		tabsByCollection[t.CollectionID] = append(tabsByCollection[t.CollectionID], t)
	}

	for _, r := range rows {
		tabs := make([]domain.Tab, 0, len(tabsByCollection[r.ID]))
		for _, t := range tabsByCollection[r.ID] {
			title := t.Title
			if title == "" {
				title = t.URL
			}
			// Local tab ids are regenerated on every pull; tabs have no
			// cross-device identity of their own.
			tabs = append(tabs, domain.Tab{
				ID:      id.NewUUID(),
				URL:     t.URL,
				Title:   title,
				Favicon: t.Favicon,
				AddedAt: time.Now().UTC(),
			})
		}

		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		updatedAt := r.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}

		incoming := &domain.Collection{
			ID:        r.ID,
			Name:      r.Name,
			SpaceID:   spaceIDByWorkspace[r.WorkspaceID],
			Tabs:      tabs,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		}

		existing, err := e.store.GetCollection(ctx, r.ID)
		if err == nil && updatedAt.Before(existing.UpdatedAt) {
			// Local copy is newer; it wins until the next push.
			continue
		}

		if err := e.store.UpsertCollection(ctx, incoming); err != nil {
			if e.logger != nil {
				e.logger.Warn("failed to store pulled collection", "id", r.ID, "error", err)
			}
		}
	}

	return Success()
}

// pullSettings overwrites local settings with the remote row when one
// exists. Settings are whole-record last-writer-wins.
func (e *Engine) pullSettings(ctx context.Context, userID string) {
	row, err := e.remote.GetSettings(ctx, userID)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to pull settings", "error", err)
		}
		return
	}
	if row == nil {
		return
	}

	settings := &domain.Settings{
		Theme:           row.Theme,
		ColorTheme:      row.ColorTheme,
		AutoSaveEnabled: row.AutoSaveEnabled,
	}
	if settings.Theme == "" {
		settings.Theme = "light"
	}
	if settings.ColorTheme == "" {
		settings.ColorTheme = "purple"
	}
	if err := e.store.UpsertSettings(ctx, settings); err != nil && e.logger != nil {
		e.logger.Warn("failed to store pulled settings", "error", err)
	}
}

// pullHistory replaces local history with the newest remote entries.
func (e *Engine) pullHistory(ctx context.Context, userID string) {
	rows, err := e.remote.ListHistory(ctx, userID, domain.HistoryLimit)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("failed to pull history", "error", err)
		}
		return
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, h := range rows {
		title := h.Title
		if title == "" {
			title = h.URL
		}
		ts := h.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		entries = append(entries, &domain.HistoryEntry{
			ID:        h.ClientTabID,
			URL:       h.URL,
			Title:     title,
			Favicon:   h.Favicon,
			Timestamp: ts,
		})
	}
	if err := e.store.ReplaceHistory(ctx, entries); err != nil && e.logger != nil {
		e.logger.Warn("failed to store pulled history", "error", err)
	}
}

// Bidirectional pushes, then pulls. A failed push stops the pull so a
// half-uploaded state is not immediately overwritten by a download.
func (e *Engine) Bidirectional(ctx context.Context) Result {
	if e.Disabled() {
		return Skip("sync disabled")
	}

	pushResult := e.Push(ctx)
	if !pushResult.OK {
		return pushResult
	}

	return e.Pull(ctx)
}
