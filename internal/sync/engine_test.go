package sync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/id"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/session"
	"github.com/simpletab/tabsync/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory backend with call counting.
type fakeRemote struct {
	mu sync.Mutex

	notConfigured bool

	workspaces  []remote.WorkspaceRow
	collections map[string]remote.CollectionRow
	tabs        map[string][]remote.TabRow
	settings    *remote.SettingsRow
	history     []remote.HistoryRow

	listCollectionsErr error

	profileCalls         int
	listCollectionCalls  int
	deleteTabsCalls      int
	insertHistoryCalls   int
	unsubscribed         bool
	changeHandler        remote.ChangeHandler
	nextWorkspaceID      int
	upsertSettingsCalls  int
	upsertCollectionRows []remote.CollectionRow
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		collections: make(map[string]remote.CollectionRow),
		tabs:        make(map[string][]remote.TabRow),
	}
}

func (f *fakeRemote) Configured() bool { return !f.notConfigured }

func (f *fakeRemote) EnsureProfile(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return nil
}

func (f *fakeRemote) ListWorkspaces(_ context.Context, _ string) ([]remote.WorkspaceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.WorkspaceRow(nil), f.workspaces...), nil
}

func (f *fakeRemote) FindWorkspaceByName(_ context.Context, _, name string) (*remote.WorkspaceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.workspaces {
		if f.workspaces[i].Name == name {
			row := f.workspaces[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) InsertWorkspace(_ context.Context, row remote.WorkspaceRow) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWorkspaceID++
	row.ID = fmt.Sprintf("ws-%d", f.nextWorkspaceID)
	row.UpdatedAt = time.Now().UTC()
	f.workspaces = append(f.workspaces, row)
	return row.ID, nil
}

func (f *fakeRemote) UpdateWorkspace(_ context.Context, workspaceID, color, icon string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.workspaces {
		if f.workspaces[i].ID == workspaceID {
			f.workspaces[i].Color = color
			f.workspaces[i].Icon = icon
			f.workspaces[i].UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (f *fakeRemote) ListCollections(_ context.Context, _ string) ([]remote.CollectionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCollectionCalls++
	if f.listCollectionsErr != nil {
		return nil, f.listCollectionsErr
	}
	rows := make([]remote.CollectionRow, 0, len(f.collections))
	for _, r := range f.collections {
		rows = append(rows, r)
	}
	return rows, nil
}

func (f *fakeRemote) UpsertCollection(_ context.Context, row remote.CollectionRow) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[row.ID] = row
	f.upsertCollectionRows = append(f.upsertCollectionRows, row)
	return row.ID, nil
}

func (f *fakeRemote) DeleteTabsByCollection(_ context.Context, collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteTabsCalls++
	delete(f.tabs, collectionID)
	return nil
}

func (f *fakeRemote) UpsertTabs(_ context.Context, rows []remote.TabRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.tabs[r.CollectionID] = append(f.tabs[r.CollectionID], r)
	}
	return nil
}

func (f *fakeRemote) ListTabsByCollections(_ context.Context, collectionIDs []string) ([]remote.TabRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []remote.TabRow
	for _, cid := range collectionIDs {
		rows = append(rows, f.tabs[cid]...)
	}
	return rows, nil
}

func (f *fakeRemote) GetSettings(_ context.Context, _ string) (*remote.SettingsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settings == nil {
		return nil, nil
	}
	row := *f.settings
	return &row, nil
}

func (f *fakeRemote) UpsertSettings(_ context.Context, row remote.SettingsRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertSettingsCalls++
	f.settings = &row
	return nil
}

func (f *fakeRemote) InsertHistory(_ context.Context, rows []remote.HistoryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertHistoryCalls++
	f.history = append(f.history, rows...)
	return nil
}

func (f *fakeRemote) ListHistory(_ context.Context, _ string, limit int) ([]remote.HistoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := append([]remote.HistoryRow(nil), f.history...)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeRemote) SubscribeChanges(_ context.Context, handler remote.ChangeHandler) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changeHandler = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribed = true
	}, nil
}

func (f *fakeRemote) pullCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCollectionCalls
}

func (f *fakeRemote) fireChange(table string) {
	f.mu.Lock()
	handler := f.changeHandler
	f.mu.Unlock()
	if handler != nil {
		handler(table)
	}
}

func newTestEngine(t *testing.T, rem Remote) (*Engine, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	sess := &session.Static{UserID: "user-1", Email: "u@example.test"}
	return NewEngine(st, rem, sess, nil, 20*time.Millisecond), st
}

func TestPush_CreatesWorkspacesAndCollections(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))
	collID := id.NewUUID()
	coll := domain.NewCollection(collID, "Reading", "work", []domain.Tab{
		{ID: "tab-1699999999999", URL: "https://go.dev", Title: "Go"},
		{ID: id.NewUUID(), URL: "https://pkg.go.dev", Title: "Packages"},
	})
	require.NoError(t, st.UpsertCollection(ctx, coll))

	result := engine.Push(ctx)
	require.True(t, result.OK, result.Reason)
	assert.False(t, result.Skipped)

	assert.Equal(t, 1, rem.profileCalls)
	assert.Equal(t, 1, rem.upsertSettingsCalls)

	require.Len(t, rem.workspaces, 1)
	assert.Equal(t, "Work", rem.workspaces[0].Name)
	assert.Equal(t, domain.DefaultSpaceColor, rem.workspaces[0].Color)

	// Collection keeps its local id remotely.
	pushed, ok := rem.collections[collID]
	require.True(t, ok)
	assert.Equal(t, rem.workspaces[0].ID, pushed.WorkspaceID)

	tabs := rem.tabs[collID]
	require.Len(t, tabs, 2)
	// Non-UUID tab ids are regenerated; valid ones are kept.
	assert.NotEqual(t, "tab-1699999999999", tabs[0].ID)
	assert.True(t, id.IsUUID(tabs[0].ID))
	assert.Equal(t, coll.Tabs[1].ID, tabs[1].ID)
	assert.Equal(t, 0, tabs[0].OrderIndex)
	assert.Equal(t, 1, tabs[1].OrderIndex)
}

func TestPush_TwiceIsIdempotent(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))
	collID := id.NewUUID()
	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Reading", "work", []domain.Tab{
		{ID: id.NewUUID(), URL: "https://go.dev", Title: "Go"},
		{ID: id.NewUUID(), URL: "https://pkg.go.dev", Title: "Packages"},
	})))

	require.True(t, engine.Push(ctx).OK)
	require.True(t, engine.Push(ctx).OK)

	// Upsert-by-name and upsert-by-id leave one row each; tabs are
	// replaced, not accumulated.
	assert.Len(t, rem.workspaces, 1)
	assert.Len(t, rem.collections, 1)
	assert.Len(t, rem.tabs[collID], 2)
	assert.Equal(t, 2, rem.deleteTabsCalls)
}

func TestPush_ExistingWorkspaceGetsCosmeticsUpdate(t *testing.T) {
	rem := newFakeRemote()
	rem.workspaces = []remote.WorkspaceRow{{ID: "ws-9", Name: "Work", Color: "#000000", Icon: "x"}}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "#FF0000", "rocket")))

	result := engine.Push(ctx)
	require.True(t, result.OK, result.Reason)

	require.Len(t, rem.workspaces, 1)
	assert.Equal(t, "#FF0000", rem.workspaces[0].Color)
	assert.Equal(t, "rocket", rem.workspaces[0].Icon)
}

func TestPush_InvalidSpaceFallsBackToFirstSpace(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("personal", "Personal", "", "")))
	collID := id.NewUUID()
	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Orphan", "deleted-space", nil)))

	result := engine.Push(ctx)
	require.True(t, result.OK, result.Reason)

	pushed, ok := rem.collections[collID]
	require.True(t, ok)
	require.Len(t, rem.workspaces, 1)
	assert.Equal(t, rem.workspaces[0].ID, pushed.WorkspaceID)
}

func TestPush_UnmappableCollectionIsSkipped(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	// No spaces at all: the collection cannot be placed.
	collID := id.NewUUID()
	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Orphan", "nowhere", nil)))

	result := engine.Push(ctx)
	require.True(t, result.OK, result.Reason)
	assert.Empty(t, rem.collections)
}

func TestPush_SkippedWhenDisabled(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	engine.SetDisabled(true)
	result := engine.Push(context.Background())

	assert.True(t, result.OK)
	assert.True(t, result.Skipped)
	assert.Equal(t, "sync disabled", result.Reason)
	assert.Zero(t, rem.profileCalls)
}

func TestPush_FailsWhenNotConfigured(t *testing.T) {
	rem := newFakeRemote()
	rem.notConfigured = true
	engine, _ := newTestEngine(t, rem)

	result := engine.Push(context.Background())
	assert.False(t, result.OK)
	assert.Equal(t, "remote backend not configured", result.Reason)
}

func TestPush_FailsWhenSignedOut(t *testing.T) {
	rem := newFakeRemote()
	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	engine := NewEngine(st, rem, &session.Static{}, nil, 0)
	result := engine.Push(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, "not signed in", result.Reason)
}

func TestPush_PushesHistory(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.AddHistoryEntry(ctx, &domain.HistoryEntry{ID: "h1", URL: "https://go.dev"}))

	result := engine.Push(ctx)
	require.True(t, result.OK, result.Reason)

	require.Len(t, rem.history, 1)
	assert.Equal(t, "h1", rem.history[0].ClientTabID)
	assert.Equal(t, "https://go.dev", rem.history[0].Title, "title falls back to url")
}

func TestPull_SkippedWhileSyncing(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	engine.mu.Lock()
	engine.syncing = true
	engine.mu.Unlock()

	result := engine.Pull(context.Background())
	assert.True(t, result.OK)
	assert.True(t, result.Skipped)
	assert.Equal(t, "push in progress", result.Reason)
	assert.Zero(t, rem.pullCount())
}

func TestPull_MergesWorkspacesByName(t *testing.T) {
	rem := newFakeRemote()
	rem.workspaces = []remote.WorkspaceRow{
		{ID: "ws-1", Name: "WORK", Color: "#123456", Icon: "rocket", UpdatedAt: time.Now().UTC().Add(time.Hour)},
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	// Matched case-insensitively: no second space created, cosmetics
	// taken from the remote row.
	spaces, err := st.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "work", spaces[0].ID)
	assert.Equal(t, "#123456", spaces[0].Color)
	assert.Equal(t, "rocket", spaces[0].Icon)
}

func TestPull_LocalNewerSpaceKeepsCosmeticsUnlessDrifted(t *testing.T) {
	rem := newFakeRemote()
	// Remote is older AND has identical cosmetics: nothing to do.
	rem.workspaces = []remote.WorkspaceRow{
		{ID: "ws-1", Name: "Work", Color: domain.DefaultSpaceColor, Icon: domain.DefaultSpaceIcon, UpdatedAt: time.Now().UTC().Add(-time.Hour)},
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	space := domain.NewSpace("work", "Work", "", "")
	require.NoError(t, st.CreateSpace(ctx, space))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	got, err := st.GetSpace(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, space.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestPull_CreatesNewSpacesWithSlugIDs(t *testing.T) {
	rem := newFakeRemote()
	rem.workspaces = []remote.WorkspaceRow{
		{ID: "ws-1", Name: "Q4 Planning", Color: "#AA0000", Icon: "chart"},
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	space, err := st.GetSpace(ctx, "q4-planning")
	require.NoError(t, err)
	assert.Equal(t, "Q4 Planning", space.Name)
	assert.Equal(t, "#AA0000", space.Color)
}

func TestPull_InsertsRemoteCollections(t *testing.T) {
	rem := newFakeRemote()
	collID := id.NewUUID()
	rem.workspaces = []remote.WorkspaceRow{{ID: "ws-1", Name: "Work"}}
	rem.collections[collID] = remote.CollectionRow{
		ID: collID, Name: "Reading", WorkspaceID: "ws-1",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	rem.tabs[collID] = []remote.TabRow{
		{ID: id.NewUUID(), CollectionID: collID, URL: "https://go.dev", Title: "Go", OrderIndex: 0},
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	got, err := st.GetCollection(ctx, collID)
	require.NoError(t, err)
	assert.Equal(t, "Reading", got.Name)
	assert.Equal(t, "work", got.SpaceID)
	require.Len(t, got.Tabs, 1)
	// Pulled tabs always get fresh local ids.
	assert.True(t, id.IsUUID(got.Tabs[0].ID))
	assert.NotEqual(t, rem.tabs[collID][0].ID, got.Tabs[0].ID)
}

func TestPull_LocalNewerCollectionWins(t *testing.T) {
	rem := newFakeRemote()
	collID := id.NewUUID()
	rem.collections[collID] = remote.CollectionRow{
		ID: collID, Name: "Stale Remote Name",
		UpdatedAt: time.Now().UTC().Add(-time.Hour),
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	local := domain.NewCollection(collID, "Fresh Local Name", "work", nil)
	require.NoError(t, st.UpsertCollection(ctx, local))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	got, err := st.GetCollection(ctx, collID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Local Name", got.Name)
}

func TestPull_RemoteNewerCollectionWins(t *testing.T) {
	rem := newFakeRemote()
	collID := id.NewUUID()
	remoteUpdated := time.Now().UTC().Add(time.Hour)
	rem.collections[collID] = remote.CollectionRow{
		ID: collID, Name: "Fresh Remote Name", UpdatedAt: remoteUpdated,
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Stale Local Name", "work", nil)))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	got, err := st.GetCollection(ctx, collID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Remote Name", got.Name)
	// Remote timestamps are preserved on merged collections.
	assert.Equal(t, remoteUpdated.Unix(), got.UpdatedAt.Unix())
}

func TestPull_EqualTimestampsRemoteWins(t *testing.T) {
	rem := newFakeRemote()
	collID := id.NewUUID()
	ts := time.Now().UTC().Truncate(time.Second)
	rem.collections[collID] = remote.CollectionRow{
		ID: collID, Name: "Remote Name", UpdatedAt: ts,
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	local := domain.NewCollection(collID, "Local Name", "work", nil)
	local.UpdatedAt = ts
	require.NoError(t, st.UpsertCollection(ctx, local))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	// Ties go to the remote copy.
	got, err := st.GetCollection(ctx, collID)
	require.NoError(t, err)
	assert.Equal(t, "Remote Name", got.Name)
}

func TestPull_AbortsWhenCollectionsFetchFails(t *testing.T) {
	rem := newFakeRemote()
	rem.listCollectionsErr = assert.AnError
	rem.settings = &remote.SettingsRow{Theme: "dark", ColorTheme: "blue", AutoSaveEnabled: true}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	result := engine.Pull(ctx)
	assert.False(t, result.OK)
	assert.Contains(t, result.Reason, assert.AnError.Error())

	// Settings stage never ran.
	settings, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)
}

func TestPull_OverwritesSettingsAndReplacesHistory(t *testing.T) {
	rem := newFakeRemote()
	rem.settings = &remote.SettingsRow{Theme: "dark", ColorTheme: "blue", AutoSaveEnabled: false}
	rem.history = []remote.HistoryRow{
		{ClientTabID: "r1", URL: "https://r1.test", Timestamp: time.Now().UTC()},
	}
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.UpsertSettings(ctx, domain.NewSettings()))
	require.NoError(t, st.AddHistoryEntry(ctx, &domain.HistoryEntry{ID: "local", URL: "https://local.test"}))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	settings, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.False(t, settings.AutoSaveEnabled)

	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].ID)
}

func TestPull_NoDeletionByAbsence(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	// Local data with an empty remote: nothing is deleted.
	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))
	collID := id.NewUUID()
	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Reading", "work", nil)))

	result := engine.Pull(ctx)
	require.True(t, result.OK, result.Reason)

	_, err := st.GetSpace(ctx, "work")
	assert.NoError(t, err)
	_, err = st.GetCollection(ctx, collID)
	assert.NoError(t, err)
}

func TestBidirectional_PushFailureStopsPull(t *testing.T) {
	rem := newFakeRemote()
	rem.notConfigured = true
	engine, _ := newTestEngine(t, rem)

	result := engine.Bidirectional(context.Background())
	assert.False(t, result.OK)
	assert.Zero(t, rem.pullCount())
}

func TestBidirectional_PushThenPull(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))

	result := engine.Bidirectional(ctx)
	require.True(t, result.OK, result.Reason)
	assert.Equal(t, 1, rem.pullCount())
	require.Len(t, rem.workspaces, 1)
}

func TestBidirectional_SkippedWhenDisabled(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	engine.SetDisabled(true)
	result := engine.Bidirectional(context.Background())
	assert.True(t, result.Skipped)
	assert.Zero(t, rem.profileCalls)
	assert.Zero(t, rem.pullCount())
}

func TestPushPull_RoundTrip(t *testing.T) {
	rem := newFakeRemote()
	engine, st := newTestEngine(t, rem)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))
	collID := id.NewUUID()
	require.NoError(t, st.UpsertCollection(ctx, domain.NewCollection(collID, "Reading", "work", []domain.Tab{
		{ID: id.NewUUID(), URL: "https://go.dev", Title: "Go"},
	})))

	require.True(t, engine.Push(ctx).OK)

	// Wipe local state, then pull it back.
	require.NoError(t, st.DeleteCollection(ctx, collID))
	require.NoError(t, st.DeleteSpace(ctx, "work"))

	require.True(t, engine.Pull(ctx).OK)

	space, err := st.GetSpaceByName(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, "Work", space.Name)

	coll, err := st.GetCollection(ctx, collID)
	require.NoError(t, err)
	assert.Equal(t, "Reading", coll.Name)
	assert.Equal(t, space.ID, coll.SpaceID)
	require.Len(t, coll.Tabs, 1)
	assert.Equal(t, "https://go.dev", coll.Tabs[0].URL)
}
