// Package providers contains dependency injection providers for the
// tabsync agent.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/simpletab/tabsync/internal/config"
	"github.com/simpletab/tabsync/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
		File:        cfg.Logger.File,
	})

	log.Info("Starting tabsync agent",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"remote_configured", cfg.RemoteConfigured(),
	)

	return log, nil
}
