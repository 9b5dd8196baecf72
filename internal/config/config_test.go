package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"profilesync"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "avatars", cfg.S3Bucket)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.True(t, cfg.RequireEmailConfirmation)
	require.Empty(t, cfg.DatabaseDSN, "in-memory store by default")
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	setArgs(t, "-d", "postgres://localhost/profiles", "-b", "pictures", "-l", "debug")

	cfg := LoadConfig()
	require.Equal(t, "postgres://localhost/profiles", cfg.DatabaseDSN)
	require.Equal(t, "pictures", cfg.S3Bucket)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database_dsn": "postgres://json/profiles",
		"s3_bucket": "json-bucket",
		"access_token_ttl": "30m",
		"require_email_confirmation": false
	}`), 0o600))

	setArgs(t, "-c", path, "-b", "flag-bucket")

	cfg := LoadConfig()
	// Flags win over JSON; JSON wins over defaults.
	require.Equal(t, "flag-bucket", cfg.S3Bucket)
	require.Equal(t, "postgres://json/profiles", cfg.DatabaseDSN)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.False(t, cfg.RequireEmailConfirmation)
}

func TestLoadConfig_JSONAbsentFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": "warn"}`), 0o600))

	setArgs(t, "-config", path)

	cfg := LoadConfig()
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "avatars", cfg.S3Bucket)
	require.True(t, cfg.RequireEmailConfirmation)
}
