package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergrip/internal/eventbus"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "nope.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.BaseURL, cfg.Server.BaseURL)
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.Equal(t, 3*time.Second, cfg.UI.PollInterval.Std())
}

func TestLoadFromToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = 1

[server]
base_url = "https://cms.example.com"
username = "root"
timeout = "5s"

[ui]
page_size = 50
poll_interval = "1500ms"
log_file = "/tmp/ug.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cms.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "root", cfg.Server.Username)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout.Std())
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.UI.PollInterval.Std())
	assert.Equal(t, "/tmp/ug.log", cfg.UI.LogFile)
}

func TestInvalidPageSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 7\n"), 0600))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.UI.PageSize)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"http://file\"\nusername = \"file-user\"\n"), 0600))

	t.Setenv("USERGRIP_BASE_URL", "http://env")
	t.Setenv("USERGRIP_TOKEN", "pat_123")
	t.Setenv("USERGRIP_PAGE_SIZE", "100")
	t.Setenv("USERGRIP_POLL_INTERVAL", "2s")

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.Server.BaseURL)
	assert.Equal(t, "file-user", cfg.Server.Username)
	assert.Equal(t, "pat_123", cfg.Server.Token)
	assert.Equal(t, 100, cfg.UI.PageSize)
	assert.Equal(t, 2*time.Second, cfg.UI.PollInterval.Std())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://saved"
	cfg.UI.PageSize = 30
	require.NoError(t, svc.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved", loaded.Server.BaseURL)
	assert.Equal(t, 30, loaded.UI.PageSize)
	assert.Equal(t, cfg.UI.PollInterval, loaded.UI.PollInterval)
}

func TestSavePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	saved := make(chan string, 1)
	unsubscribe := bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		saved <- e.(eventbus.ConfigSavedEvent).Path
	})
	defer unsubscribe()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigServiceWithBus(path, bus).Save(DefaultConfig()))

	select {
	case got := <-saved:
		assert.Equal(t, path, got)
	case <-time.After(time.Second):
		t.Fatal("config saved event not delivered")
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\n"), 0600))

	_, err := NewConfigServiceAt(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
