package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/tabsync-test"},
		Sync:   SyncConfig{Enabled: true, Interval: 5 * time.Minute, RealtimeDebounce: 500 * time.Millisecond},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsBadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "testing"
	assert.ErrorContains(t, cfg.Validate(), "invalid environment")
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")
}

func TestValidate_RejectsShortSyncInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.Interval = 10 * time.Second
	assert.ErrorContains(t, cfg.Validate(), "too short")
}

func TestValidate_AllowsMissingSupabase(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.RemoteConfigured())

	cfg.Supabase.URL = "https://example.supabase.co"
	assert.False(t, cfg.RemoteConfigured())

	cfg.Supabase.AnonKey = "anon-key"
	assert.True(t, cfg.RemoteConfigured())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TABSYNC_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TABSYNC_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TABSYNC_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TABSYNC_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("TABSYNC_TEST_BOOL", "yes")
	assert.True(t, getBoolConfigValue("", "TABSYNC_TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("no", "TABSYNC_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "TABSYNC_TEST_BOOL_MISSING", true))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("", "TABSYNC_TEST_DURATION_MISSING", "5m")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	_, err = parseDurationValue("nonsense", "SYNC_INTERVAL", "5m")
	assert.Error(t, err)
}

func TestStorePaths(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "/tmp/tabsync-test/store", cfg.StorePath())
	assert.Equal(t, "/tmp/tabsync-test/search.bleve", cfg.SearchIndexPath())
}
