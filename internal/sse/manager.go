// Package sse streams sync lifecycle events to connected clients. The
// extension bridge subscribes to learn when a pull changed local state
// so it can refresh its views.
package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/simpletab/tabsync/internal/id"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// Event is a single stream message.
type Event struct {
	Type      string          `json:"type"`
	Op        string          `json:"op,omitempty"`
	Result    *syncpkg.Result `json:"result,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// client is one connected stream.
type client struct {
	id     string
	events chan Event
}

// Manager fans sync events out to connected clients.
type Manager struct {
	logger            *slog.Logger
	events            chan Event
	heartbeatInterval time.Duration

	mu      sync.RWMutex
	clients map[string]*client

	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates an event manager. Start must be called before
// events flow.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger:            logger,
		events:            make(chan Event, 256),
		heartbeatInterval: 30 * time.Second,
		clients:           make(map[string]*client),
	}
}

// SyncCompleted implements the engine's Notifier.
func (m *Manager) SyncCompleted(op string, result syncpkg.Result) {
	m.Publish(Event{Type: "sync", Op: op, Result: &result, Timestamp: time.Now().UTC()})
}

// Publish enqueues an event for broadcast. Events are dropped when the
// queue is full; the stream is advisory, clients poll status anyway.
func (m *Manager) Publish(event Event) {
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()
	if m.shutdown {
		return
	}

	select {
	case m.events <- event:
	default:
		if m.logger != nil {
			m.logger.Warn("event queue full, dropping event", "type", event.Type)
		}
	}
}

// Start runs the broadcast loop until ctx is canceled.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-m.events:
			m.broadcast(event)
		case <-ticker.C:
			m.broadcast(Event{Type: "heartbeat", Timestamp: time.Now().UTC()})
		case <-ctx.Done():
			m.closeAll()
			return
		}
	}
}

// subscribe registers a client and returns its channel plus a remove
// function.
func (m *Manager) subscribe() (<-chan Event, func()) {
	c := &client{
		id:     id.NewUUID(),
		events: make(chan Event, 16),
	}

	m.mu.Lock()
	m.clients[c.id] = c
	m.mu.Unlock()

	return c.events, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.clients[c.id]; ok {
			delete(m.clients, c.id)
			close(c.events)
		}
	}
}

func (m *Manager) broadcast(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		select {
		case c.events <- event:
		default:
			// Slow client; it catches up on the next event.
		}
	}
}

func (m *Manager) closeAll() {
	m.shutdownMu.Lock()
	m.shutdown = true
	m.shutdownMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for clientID, c := range m.clients {
		delete(m.clients, clientID)
		close(c.events)
	}
}

// ClientCount reports the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
