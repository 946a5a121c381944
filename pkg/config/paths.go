package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Config files are looked up by extension, most specific format first.
var configExtensions = []string{"yaml", "yml", "json", "toml"}

// DefaultConfigDir returns the platform-specific default configuration
// directory for an application.
//
// Linux:   $XDG_CONFIG_HOME/<app> (fallback ~/.config/<app>)
// macOS:   ~/Library/Application Support/<app>
// Windows: %APPDATA%/<app>
func DefaultConfigDir(app string) (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, app), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", app), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, app), nil
	}
}

// LocateConfigFile resolves the config file consulted for an application,
// following the precedence chain: explicit path > <APP>_CONFIG env >
// config.<ext> in the platform config directory. It returns ok=false when
// no file exists at any of those locations; absence is not an error.
func LocateConfigFile(app, explicit string) (string, bool, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", false, err
		}
		return abs, true, nil
	}

	if env := os.Getenv(envConfigVar(app)); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", false, err
		}
		return abs, true, nil
	}

	dir, err := DefaultConfigDir(app)
	if err != nil {
		return "", false, err
	}
	for _, ext := range configExtensions {
		candidate := filepath.Join(dir, "config."+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// envConfigVar is the environment variable naming an explicit config
// file, e.g. ARGBIND_CONFIG for app "argbind".
func envConfigVar(app string) string {
	return strings.ToUpper(envKeyFolder.Replace(app)) + "_CONFIG"
}
