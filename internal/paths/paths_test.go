package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

func TestExpand(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty stays empty", "", ""},
		{"absolute is cleaned", "/opt//vulkan/../vulkan-sdk", "/opt/vulkan-sdk"},
		{"tilde expands", "~/vulkan-sdk", filepath.Join(home, "vulkan-sdk")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.in)
			if err != nil {
				t.Fatalf("Expand(%q) error = %v", tt.in, err)
			}
			if got != filepath.FromSlash(tt.want) && got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpand_Invalid(t *testing.T) {
	_, err := Expand("bad\x00path")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expand() error = %v, want ErrInvalidPath", err)
	}
	_, err = Expand("~otheruser/sdk")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expand(~user) error = %v, want ErrInvalidPath", err)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() should be idempotent, got %v", err)
	}
}

func TestTempDir(t *testing.T) {
	runnerTemp := t.TempDir()
	t.Setenv("RUNNER_TEMP", runnerTemp)
	if got := TempDir(); got != runnerTemp {
		t.Errorf("TempDir() = %q, want %q", got, runnerTemp)
	}

	t.Setenv("RUNNER_TEMP", "")
	if got := TempDir(); got != os.TempDir() {
		t.Errorf("TempDir() = %q, want %q", got, os.TempDir())
	}
}

func TestCacheAndConfigDirs(t *testing.T) {
	if !strings.HasSuffix(CacheDir(), AppName) {
		t.Errorf("CacheDir() = %q, want suffix %q", CacheDir(), AppName)
	}
	if !strings.HasSuffix(ConfigDir(), AppName) {
		t.Errorf("ConfigDir() = %q, want suffix %q", ConfigDir(), AppName)
	}
}
