package cli

import (
	"os"
	"path/filepath"
)

// xdgDir resolves an XDG base directory for repertree: $env/repertree when
// the variable is set, else ~/<fallback...>/repertree.
func xdgDir(env string, fallback ...string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}

// cacheDir holds file cache entries (~/.cache/repertree).
func cacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// dataDir holds the file repertoire store (~/.local/share/repertree).
func dataDir() (string, error) { return xdgDir("XDG_DATA_HOME", ".local", "share") }

// configDir holds config.yaml (~/.config/repertree).
func configDir() (string, error) { return xdgDir("XDG_CONFIG_HOME", ".config") }
