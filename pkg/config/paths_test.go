package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir("argbind")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/argbind", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir("argbind")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "argbind"), got)
	})
}

func TestLocateConfigFile(t *testing.T) {
	t.Run("explicit path wins and is made absolute", func(t *testing.T) {
		t.Setenv("ARGBIND_CONFIG", "/ignored.yaml")
		path, ok, err := LocateConfigFile("argbind", "some/config.yaml")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, "config.yaml", filepath.Base(path))
	})

	t.Run("env variable is consulted next", func(t *testing.T) {
		t.Setenv("ARGBIND_CONFIG", "/etc/argbind.yaml")
		path, ok, err := LocateConfigFile("argbind", "")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "/etc/argbind.yaml", path)
	})

	t.Run("falls back to the platform config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("linux-only test")
		}
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		t.Setenv("ARGBIND_CONFIG", "")

		appDir := filepath.Join(dir, "argbind")
		require.NoError(t, os.MkdirAll(appDir, 0o755))
		want := filepath.Join(appDir, "config.yaml")
		require.NoError(t, os.WriteFile(want, []byte("region: eu\n"), 0o644))

		path, ok, err := LocateConfigFile("argbind", "")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, path)
	})

	t.Run("absence is ok=false, not an error", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("linux-only test")
		}
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("ARGBIND_CONFIG", "")

		_, ok, err := LocateConfigFile("argbind", "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
