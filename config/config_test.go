package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("MAX_CHANNELS", "5")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("COMMAND_PREFIXES", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxClocksPerGuild)
	assert.Equal(t, []string{"timezone", "?t"}, cfg.CommandPrefixes)
	assert.Equal(t, "timezone", cfg.PrimaryPrefix())
	assert.Equal(t, 20, cfg.WorkerPoolSize)
	assert.False(t, cfg.ClockRefreshEnabled)
	assert.Equal(t, "*/10 * * * *", cfg.ClockRefreshSchedule)
	assert.Equal(t, float64(1), cfg.PlatformEditsPerSecond)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DATABASE_NAME", "clocks")
	t.Setenv("MAX_CHANNELS", "12")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("COMMAND_PREFIXES", " !clock , ,?tz")
	t.Setenv("WORKER_POOL_SIZE", "4")
	t.Setenv("CLOCK_REFRESH_ENABLED", "true")
	t.Setenv("PLATFORM_EDITS_PER_SECOND", "0.5")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MaxClocksPerGuild)
	assert.Equal(t, []string{"!clock", "?tz"}, cfg.CommandPrefixes)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.True(t, cfg.ClockRefreshEnabled)
	assert.Equal(t, 0.5, cfg.PlatformEditsPerSecond)
	assert.Equal(t, "postgres://localhost:5432/clocks?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_RequiresMaxChannels(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("ENVIRONMENT", "production")

	t.Run("missing", func(t *testing.T) {
		t.Setenv("MAX_CHANNELS", "")
		_, err := load()
		assert.ErrorContains(t, err, "MAX_CHANNELS")
	})

	t.Run("zero", func(t *testing.T) {
		t.Setenv("MAX_CHANNELS", "0")
		_, err := load()
		assert.ErrorContains(t, err, "MAX_CHANNELS")
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("MAX_CHANNELS", "five")
		_, err := load()
		assert.ErrorContains(t, err, "MAX_CHANNELS")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOTOCLOCK_TEST_VALUE=from-file\n"), 0o600))

	t.Setenv("BOTOCLOCK_TEST_VALUE", "")
	os.Unsetenv("BOTOCLOCK_TEST_VALUE")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("BOTOCLOCK_TEST_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	cfg := NewTestConfig()
	cfg.MaxClocksPerGuild = 3
	SetTestConfig(cfg)

	assert.Same(t, cfg, Get())
}
