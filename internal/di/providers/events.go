package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/sse"
)

// SSEManagerHandle wraps the event manager with its broadcast loop for
// lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideSSEManager provides the sync event broadcaster.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	return &SSEManagerHandle{Manager: manager, cancel: cancel}, nil
}
