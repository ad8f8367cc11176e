package sse

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

func startedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return m
}

func TestManager_BroadcastReachesSubscribers(t *testing.T) {
	m := startedManager(t)

	events, unsubscribe := m.subscribe()
	defer unsubscribe()
	assert.Equal(t, 1, m.ClientCount())

	m.SyncCompleted("pull", syncpkg.Success())

	select {
	case event := <-events:
		assert.Equal(t, "sync", event.Type)
		assert.Equal(t, "pull", event.Op)
		require.NotNil(t, event.Result)
		assert.True(t, event.Result.OK)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestManager_UnsubscribeRemovesClient(t *testing.T) {
	m := startedManager(t)

	_, unsubscribe := m.subscribe()
	unsubscribe()
	assert.Zero(t, m.ClientCount())

	// Idempotent.
	unsubscribe()
}

func TestManager_PublishAfterShutdownIsDropped(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	m.Publish(Event{Type: "sync"})
}

// streamWriter is a flushable response writer safe to inspect while
// the handler goroutine writes.
type streamWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	header http.Header
}

func (w *streamWriter) Header() http.Header {
	if w.header == nil {
		w.header = make(http.Header)
	}
	return w.header
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *streamWriter) WriteHeader(int) {}

func (w *streamWriter) Flush() {}

func (w *streamWriter) body() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestHandler_StreamsEvents(t *testing.T) {
	m := startedManager(t)
	handler := NewHandler(m)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/v1/events", nil).WithContext(ctx)
	w := &streamWriter{}

	served := make(chan struct{})
	go func() {
		handler.ServeHTTP(w, req)
		close(served)
	}()

	assert.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	m.SyncCompleted("push", syncpkg.Failure("not signed in"))

	assert.Eventually(t, func() bool {
		return strings.Contains(w.body(), "not signed in")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, w.body(), "event: sync")

	cancel()
	<-served
}
