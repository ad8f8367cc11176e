package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestNew_OpensAndCloses(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestStore_ContextCancellation(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListSpaces(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.GetCollection(ctx, "any")
	require.ErrorIs(t, err, context.Canceled)
}
