package providers

import (
	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
	"github.com/simpletab/tabsync/internal/remote"
	"github.com/simpletab/tabsync/internal/session"
)

// ProvideSession provides the GoTrue auth session. With no credentials
// configured it reports signed-out and sync attempts fail cleanly.
func ProvideSession(i do.Injector) (*session.GoTrue, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return session.NewGoTrue(
		cfg.Supabase.URL,
		cfg.Supabase.AnonKey,
		cfg.Supabase.Email,
		cfg.Supabase.Password,
		log.Logger,
	), nil
}

// ProvideRemoteClient provides the PostgREST client. User tokens come
// from the session; requests fall back to the anon key when signed out.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sess := do.MustInvoke[*session.GoTrue](i)

	return remote.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, sess, log.Logger), nil
}
