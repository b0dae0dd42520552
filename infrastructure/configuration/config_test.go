package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfiguration tests the configuration defaults applied at init
func TestConfiguration(t *testing.T) {
	t.Run("defaults_are_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port, "App port should default")
		require.NotEmpty(t, C.Cache.Backend, "Cache backend should default")
		require.NotEmpty(t, C.Database.Library, "Library backend should default")
		require.Positive(t, C.YouTube.MaxResults)
		require.NotEmpty(t, C.App.AllowedOrigins)
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b,,c ,"))
	assert.Empty(t, splitList(" , "))
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("KARAOKE_TEST_VALUE", "")
	assert.Equal(t, "from-config", getConfigValue("from-config", "KARAOKE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("YOUR_API_KEY", "KARAOKE_TEST_VALUE", "fallback"))

	t.Setenv("KARAOKE_TEST_VALUE", "from-env")
	assert.Equal(t, "from-env", getConfigValue("from-config", "KARAOKE_TEST_VALUE", "fallback"))
}

func TestInitYouTube(t *testing.T) {
	t.Run("pool from env list", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEYS", "K1, K2 ,YOUR_KEY_HERE,K3")
		cfg := &Config{}
		initYouTube(cfg)
		assert.Equal(t, []string{"K1", "K2", "K3"}, cfg.YouTube.APIKeys)
		assert.Equal(t, int64(defaultMaxResults), cfg.YouTube.MaxResults)
		assert.Equal(t, defaultQuerySuffix, cfg.YouTube.QuerySuffix)
	})

	t.Run("single key", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEYS", "")
		t.Setenv("YOUTUBE_API_KEY", "ONLY")
		cfg := &Config{}
		initYouTube(cfg)
		assert.Equal(t, []string{"ONLY"}, cfg.YouTube.APIKeys)
	})

	t.Run("config file keys kept", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEYS", "")
		t.Setenv("YOUTUBE_API_KEY", "")
		cfg := &Config{YouTube: YouTube{APIKeys: []string{"A", "B"}, MaxResults: 25}}
		initYouTube(cfg)
		assert.Equal(t, []string{"A", "B"}, cfg.YouTube.APIKeys)
		assert.Equal(t, int64(25), cfg.YouTube.MaxResults)
	})
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 2*time.Hour, Cache{TTLMinutes: 120}.CacheTTL())
	assert.Equal(t, time.Hour, App{SessionIdleMinutes: 60}.SessionIdle())
	assert.Equal(t, defaultYouTubeTimeout, YouTube{}.Timeout())
	assert.Equal(t, 3*time.Second, YouTube{TimeoutSeconds: 3}.Timeout())
}

// unsetForTest clears key for the test and restores the previous value after.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "config.env")
	second := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(first, []byte(strings.Join([]string{
		"# local keys",
		"YOUTUBE_API_KEYS=K1,K2",
		`KARAOKE_ENV_TEST_SECRET="quoted secret"`,
		"KARAOKE_ENV_TEST_PORT=1234",
		"",
	}, "\n")), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("KARAOKE_ENV_TEST_SECRET=from-second\nKARAOKE_ENV_TEST_ONLY_SECOND=yes\n"), 0o600))

	unsetForTest(t, "YOUTUBE_API_KEYS")
	unsetForTest(t, "YOUTUBE_API_KEY")
	unsetForTest(t, "KARAOKE_ENV_TEST_SECRET")
	unsetForTest(t, "KARAOKE_ENV_TEST_ONLY_SECOND")
	t.Setenv("KARAOKE_ENV_TEST_PORT", "9000")

	LoadEnvFromFile(filepath.Join(dir, "missing.env"), first, second)

	assert.Equal(t, "K1,K2", os.Getenv("YOUTUBE_API_KEYS"))
	assert.Equal(t, "quoted secret", os.Getenv("KARAOKE_ENV_TEST_SECRET"), "earlier file wins")
	assert.Equal(t, "yes", os.Getenv("KARAOKE_ENV_TEST_ONLY_SECOND"))
	assert.Equal(t, "9000", os.Getenv("KARAOKE_ENV_TEST_PORT"), "process env wins")

	cfg := &Config{}
	initYouTube(cfg)
	assert.Equal(t, []string{"K1", "K2"}, cfg.YouTube.APIKeys)
}
