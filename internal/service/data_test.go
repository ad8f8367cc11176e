package service

import (
	"context"
	"sync"
	"testing"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/session"
	"github.com/simpletab/tabsync/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDeleter records remote deletion calls.
type fakeDeleter struct {
	mu                sync.Mutex
	configured        bool
	failAll           bool
	workspaceByName   map[string]string
	deletedTabs       []string
	deletedColls      []string
	deletedWorkspaces []string
}

func (f *fakeDeleter) Configured() bool { return f.configured }

func (f *fakeDeleter) DeleteTabsByCollection(_ context.Context, collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return assert.AnError
	}
	f.deletedTabs = append(f.deletedTabs, collectionID)
	return nil
}

func (f *fakeDeleter) DeleteCollection(_ context.Context, collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return assert.AnError
	}
	f.deletedColls = append(f.deletedColls, collectionID)
	return nil
}

func (f *fakeDeleter) FindWorkspaceByName(_ context.Context, _, name string) (*remote.WorkspaceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, assert.AnError
	}
	if id, ok := f.workspaceByName[name]; ok {
		return &remote.WorkspaceRow{ID: id, Name: name}, nil
	}
	return nil, nil
}

func (f *fakeDeleter) DeleteWorkspace(_ context.Context, workspaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return assert.AnError
	}
	f.deletedWorkspaces = append(f.deletedWorkspaces, workspaceID)
	return nil
}

// countingRequester counts sync requests.
type countingRequester struct {
	mu    sync.Mutex
	count int
}

func (c *countingRequester) RequestSync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *countingRequester) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func newTestService(t *testing.T, deleter *fakeDeleter) (*DataService, *countingRequester, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	requester := &countingRequester{}
	var del Deleter
	if deleter != nil {
		del = deleter
	}
	svc := NewDataService(st, del, &session.Static{UserID: "user-1"}, requester, nil)
	return svc, requester, st
}

func TestEnsureDefaultSpace(t *testing.T) {
	svc, _, st := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultSpace(ctx))

	space, err := st.GetSpaceByName(ctx, DefaultSpaceName)
	require.NoError(t, err)
	assert.Equal(t, "personal", space.ID)

	// Second call is a no-op.
	require.NoError(t, svc.EnsureDefaultSpace(ctx))
	spaces, err := st.ListSpaces(ctx)
	require.NoError(t, err)
	assert.Len(t, spaces, 1)
}

func TestEnsureDefaultSpace_SkippedWhenSpacesExist(t *testing.T) {
	svc, _, st := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, st.CreateSpace(ctx, domain.NewSpace("work", "Work", "", "")))
	require.NoError(t, svc.EnsureDefaultSpace(ctx))

	_, err := st.GetSpaceByName(ctx, DefaultSpaceName)
	assert.ErrorIs(t, err, store.ErrSpaceNotFound)
}

func TestCreateSpace_TriggersSync(t *testing.T) {
	svc, requester, _ := newTestService(t, nil)

	space, err := svc.CreateSpace(context.Background(), "Work Projects", "", "")
	require.NoError(t, err)
	assert.Equal(t, "work-projects", space.ID)
	assert.Equal(t, domain.DefaultSpaceColor, space.Color)
	assert.Equal(t, 1, requester.calls())
}

func TestCreateSpace_SlugCollisionGetsGeneratedID(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.CreateSpace(ctx, "Work", "", "")
	require.NoError(t, err)
	assert.Equal(t, "work", first.ID)

	// Different name, same slug: falls back to a generated id.
	second, err := svc.CreateSpace(ctx, "Work!", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, "work", second.ID)
	assert.NotEmpty(t, second.ID)

	// Same name again is rejected outright.
	_, err = svc.CreateSpace(ctx, "work", "", "")
	assert.ErrorIs(t, err, store.ErrDuplicateSpaceName)
}

func TestDeleteSpace_CascadesAndPropagates(t *testing.T) {
	deleter := &fakeDeleter{configured: true, workspaceByName: map[string]string{"Work": "ws-1"}}
	svc, requester, st := newTestService(t, deleter)
	ctx := context.Background()

	space, err := svc.CreateSpace(ctx, "Work", "", "")
	require.NoError(t, err)
	coll, err := svc.CreateCollection(ctx, "Reading", space.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSpace(ctx, space.ID))

	_, err = st.GetSpace(ctx, space.ID)
	assert.ErrorIs(t, err, store.ErrSpaceNotFound)
	_, err = st.GetCollection(ctx, coll.ID)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)

	assert.Equal(t, []string{coll.ID}, deleter.deletedTabs)
	assert.Equal(t, []string{coll.ID}, deleter.deletedColls)
	assert.Equal(t, []string{"ws-1"}, deleter.deletedWorkspaces)
	assert.GreaterOrEqual(t, requester.calls(), 3)
}

func TestDeleteSpace_RemoteFailureIsSwallowed(t *testing.T) {
	deleter := &fakeDeleter{configured: true, failAll: true}
	svc, _, st := newTestService(t, deleter)
	ctx := context.Background()

	space, err := svc.CreateSpace(ctx, "Work", "", "")
	require.NoError(t, err)
	_, err = svc.CreateCollection(ctx, "Reading", space.ID, nil)
	require.NoError(t, err)

	// Local deletion succeeds even though every remote call fails.
	require.NoError(t, svc.DeleteSpace(ctx, space.ID))

	_, err = st.GetSpace(ctx, space.ID)
	assert.ErrorIs(t, err, store.ErrSpaceNotFound)
}

func TestDeleteCollection_Propagates(t *testing.T) {
	deleter := &fakeDeleter{configured: true}
	svc, _, _ := newTestService(t, deleter)
	ctx := context.Background()

	space, err := svc.CreateSpace(ctx, "Work", "", "")
	require.NoError(t, err)
	coll, err := svc.CreateCollection(ctx, "Reading", space.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCollection(ctx, coll.ID))
	assert.Equal(t, []string{coll.ID}, deleter.deletedTabs)
	assert.Equal(t, []string{coll.ID}, deleter.deletedColls)
}

func TestDeleteCollection_MissingIsNoop(t *testing.T) {
	deleter := &fakeDeleter{configured: true}
	svc, _, _ := newTestService(t, deleter)

	require.NoError(t, svc.DeleteCollection(context.Background(), "missing"))
	assert.Empty(t, deleter.deletedColls)
}

func TestCreateCollection_RequiresExistingSpace(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.CreateCollection(context.Background(), "Reading", "nowhere", nil)
	assert.ErrorIs(t, err, store.ErrSpaceNotFound)
}

func TestTabOperations(t *testing.T) {
	svc, requester, _ := newTestService(t, nil)
	ctx := context.Background()

	space, err := svc.CreateSpace(ctx, "Work", "", "")
	require.NoError(t, err)
	coll, err := svc.CreateCollection(ctx, "Reading", space.ID, nil)
	require.NoError(t, err)

	coll, err = svc.AddTab(ctx, coll.ID, domain.Tab{URL: "https://go.dev"})
	require.NoError(t, err)
	coll, err = svc.AddTab(ctx, coll.ID, domain.Tab{URL: "https://pkg.go.dev", Title: "Packages"})
	require.NoError(t, err)
	require.Len(t, coll.Tabs, 2)
	assert.Equal(t, "https://go.dev", coll.Tabs[0].Title, "title falls back to url")
	assert.NotEmpty(t, coll.Tabs[0].ID)

	moved, err := svc.MoveTab(ctx, coll.ID, coll.Tabs[1].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Packages", moved.Tabs[0].Title)

	removed, err := svc.RemoveTab(ctx, coll.ID, moved.Tabs[0].ID)
	require.NoError(t, err)
	require.Len(t, removed.Tabs, 1)

	_, err = svc.RemoveTab(ctx, coll.ID, "nope")
	assert.Error(t, err)

	// create space + collection + 2 adds + move + remove
	assert.Equal(t, 6, requester.calls())
}

func TestRecordHistory(t *testing.T) {
	svc, requester, st := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordHistory(ctx, &domain.HistoryEntry{URL: "https://go.dev"}))

	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, "https://go.dev", entries[0].Title)
	assert.Equal(t, 1, requester.calls())
}
