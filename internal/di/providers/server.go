package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/api"
	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/service"
	"github.com/simpletab/tabsync/internal/session"
	"github.com/simpletab/tabsync/internal/sse"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// shutdownTimeout bounds graceful shutdown of long-lived components.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the control API server and starts
// listening in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	data := do.MustInvoke[*service.DataService](i)
	engine := do.MustInvoke[*syncpkg.Engine](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	sess := do.MustInvoke[*session.GoTrue](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	handler := api.NewServer(data, engine, searchHandle.Index, sess, log.Logger)
	handler.MountEvents(sse.NewHandler(sseHandle.Manager))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Control API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Control API server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
