package cli

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name     string
		env      string
		dir      func() (string, error)
		fallback string
	}{
		{"cache", "XDG_CACHE_HOME", cacheDir, filepath.Join(home, ".cache", appName)},
		{"data", "XDG_DATA_HOME", dataDir, filepath.Join(home, ".local", "share", appName)},
		{"config", "XDG_CONFIG_HOME", configDir, filepath.Join(home, ".config", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, "")
			got, err := tt.dir()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.fallback {
				t.Errorf("without $%s: %s, want %s", tt.env, got, tt.fallback)
			}

			base := filepath.Join(t.TempDir(), "xdg")
			t.Setenv(tt.env, base)
			got, err = tt.dir()
			if err != nil {
				t.Fatal(err)
			}
			if want := filepath.Join(base, appName); got != want {
				t.Errorf("with $%s: %s, want %s", tt.env, got, want)
			}
		})
	}
}

func TestXDGDirWithoutHome(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("home is not $HOME on " + runtime.GOOS)
	}
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	if _, err := cacheDir(); err == nil {
		t.Error("expected an error with no home directory")
	}
}
