package prefs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refstudio/reftheme/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	return NewStore(config.DefaultConfig(), path, discardLogger()), path
}

func TestSetThemePersistsAndNotifies(t *testing.T) {
	store, path := newTestStore(t)

	var notified int
	store.OnThemeChanged(func() { notified++ })

	require.NoError(t, store.SetTheme("dark"))
	assert.Equal(t, "dark", store.SelectedTheme())
	assert.Equal(t, 1, notified)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Theme.Name)

	// Setting the same value again is silent.
	require.NoError(t, store.SetTheme("dark"))
	assert.Equal(t, 1, notified)
}

func TestSetSyncOSNotifiesThemeGroup(t *testing.T) {
	store, _ := newTestStore(t)

	var notified int
	store.OnThemeChanged(func() { notified++ })

	require.NoError(t, store.SetSyncOS(true))
	assert.True(t, store.ThemeSyncOS())
	assert.Equal(t, 1, notified)
}

func TestSetFontValidatesAndNotifies(t *testing.T) {
	store, _ := newTestStore(t)

	var fontNotified, themeNotified int
	store.OnFontChanged(func() { fontNotified++ })
	store.OnThemeChanged(func() { themeNotified++ })

	require.NoError(t, store.SetFont(true, 14))
	assert.True(t, store.ShouldOverrideFontSize())
	assert.Equal(t, 14, store.MainFontSize())
	assert.Equal(t, 1, fontNotified)
	assert.Equal(t, 0, themeNotified)

	err := store.SetFont(true, 500)
	assert.Error(t, err)
	assert.Equal(t, 14, store.MainFontSize())
	assert.Equal(t, 1, fontNotified)
}

func TestAdoptNotifiesOnlyChangedGroups(t *testing.T) {
	store, _ := newTestStore(t)

	var fontNotified, themeNotified int
	store.OnFontChanged(func() { fontNotified++ })
	store.OnThemeChanged(func() { themeNotified++ })

	next := config.DefaultConfig()
	next.Theme.Name = "dark"
	store.Adopt(next)
	assert.Equal(t, 1, themeNotified)
	assert.Equal(t, 0, fontNotified)

	same := *next
	store.Adopt(&same)
	assert.Equal(t, 1, themeNotified)
	assert.Equal(t, 0, fontNotified)
}

func TestConfigWatcherReloadsValidEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Save(path))

	store := NewStore(cfg, path, discardLogger())

	themeChanged := make(chan struct{}, 1)
	store.OnThemeChanged(func() {
		select {
		case themeChanged <- struct{}{}:
		default:
		}
	})

	watcher := NewConfigWatcher(store, path, discardLogger())
	watcher.SetPollInterval(10 * time.Millisecond)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	edited := config.DefaultConfig()
	edited.Theme.Name = "dark"
	require.NoError(t, edited.Save(path))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case <-themeChanged:
	case <-time.After(2 * time.Second):
		t.Fatal("theme change not observed")
	}
	assert.Equal(t, "dark", store.SelectedTheme())
}

func TestConfigWatcherKeepsLastValidOnBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Theme.Name = "dark"
	require.NoError(t, cfg.Save(path))

	store := NewStore(cfg, path, discardLogger())
	watcher := NewConfigWatcher(store, path, discardLogger())
	watcher.SetPollInterval(10 * time.Millisecond)

	errs := make(chan error, 1)
	watcher.SetErrorCallback(func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[font]\nsize = 9000\n"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("validation error not reported")
	}
	assert.Equal(t, "dark", store.SelectedTheme())
}
