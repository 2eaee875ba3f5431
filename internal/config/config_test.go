package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/viper"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// isolate resets viper and keeps the host's config files and INPUT_*
// variables out of the test.
func isolate(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		KeyVulkanVersion, KeyDestination, KeyInstallRuntime, KeyCache,
		KeyOptionalComponents, KeyStripdown, KeyCacheDir, KeyInstallerTimeout,
		KeyMetadataURL, KeyDownloadURL,
	} {
		t.Setenv("INPUT_"+strings.ToUpper(key), "")
		os.Unsetenv("INPUT_" + strings.ToUpper(key))
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		VulkanVersion:      "latest",
		OptionalComponents: []string{},
		InstallerTimeout:   30 * time.Minute,
		MetadataURL:        DefaultMetadataURL,
		DownloadURL:        DefaultDownloadURL,
	}
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate(defaults) = %v", errs)
	}
}

func TestLoad_ActionInputs(t *testing.T) {
	isolate(t)
	t.Setenv("INPUT_VULKAN_VERSION", "1.3.250.1")
	t.Setenv("INPUT_INSTALL_RUNTIME", "TRUE")
	t.Setenv("INPUT_CACHE", "true")
	t.Setenv("INPUT_STRIPDOWN", "true")
	t.Setenv("INPUT_OPTIONAL_COMPONENTS", "com.lunarg.vulkan.vma, com.lunarg.vulkan.volk")
	t.Setenv("INPUT_INSTALLER_TIMEOUT", "45m")
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.VulkanVersion != "1.3.250.1" {
		t.Errorf("VulkanVersion = %q", cfg.VulkanVersion)
	}
	if !cfg.InstallRuntime || !cfg.Cache || !cfg.Stripdown {
		t.Errorf("flags = runtime:%v cache:%v stripdown:%v, want all true", cfg.InstallRuntime, cfg.Cache, cfg.Stripdown)
	}
	if cfg.InstallerTimeout != 45*time.Minute {
		t.Errorf("InstallerTimeout = %v", cfg.InstallerTimeout)
	}
	valid, _ := FilterComponents(cfg.OptionalComponents)
	if diff := cmp.Diff([]string{"com.lunarg.vulkan.vma", "com.lunarg.vulkan.volk"}, valid); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	isolate(t)
	Init()

	path := filepath.Join(t.TempDir(), "setup-vulkan-sdk.yaml")
	content := "vulkan_version: 1.3.243.0\ndestination: /opt/vulkan\ncache: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VulkanVersion != "1.3.243.0" || cfg.Destination != "/opt/vulkan" || !cfg.Cache {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing explicit path")
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Load() error = %v, want ErrInvalidInput", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	Init()

	path := filepath.Join(t.TempDir(), "setup-vulkan-sdk.yaml")
	if err := os.WriteFile(path, []byte("cache: [true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		VulkanVersion:    "latest",
		InstallerTimeout: time.Minute,
		MetadataURL:      DefaultMetadataURL,
		DownloadURL:      DefaultDownloadURL,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   int
	}{
		{name: "valid", mutate: func(*Config) {}, want: 0},
		{name: "bad version", mutate: func(c *Config) { c.VulkanVersion = "1.3" }, want: 1},
		{name: "null byte path", mutate: func(c *Config) { c.Destination = "a\x00b" }, want: 1},
		{name: "bad url", mutate: func(c *Config) { c.DownloadURL = "ftp://example.com" }, want: 1},
		{name: "zero timeout", mutate: func(c *Config) { c.InstallerTimeout = 0 }, want: 1},
		{name: "several", mutate: func(c *Config) {
			c.VulkanVersion = "x"
			c.MetadataURL = "not a url"
		}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			errs := Validate(&cfg)
			if len(errs) != tt.want {
				t.Fatalf("Validate() = %v, want %d errors", errs, tt.want)
			}
			for _, err := range errs {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("error %v does not match ErrInvalidInput", err)
				}
			}
		})
	}
}

func TestFilterComponents(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		wantValid   []string
		wantInvalid []string
	}{
		{name: "empty", input: nil},
		{
			name:      "comma list with spaces",
			input:     []string{" com.lunarg.vulkan.glm ,com.lunarg.vulkan.sdl2,, "},
			wantValid: []string{"com.lunarg.vulkan.glm", "com.lunarg.vulkan.sdl2"},
		},
		{
			name:        "drops unknown and duplicates",
			input:       []string{"com.lunarg.vulkan.vma", "com.example.evil", "com.lunarg.vulkan.vma"},
			wantValid:   []string{"com.lunarg.vulkan.vma"},
			wantInvalid: []string{"com.example.evil"},
		},
		{
			name:      "legacy components",
			input:     []string{"com.lunarg.vulkan.debug", "com.lunarg.vulkan.thirdparty"},
			wantValid: []string{"com.lunarg.vulkan.debug", "com.lunarg.vulkan.thirdparty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, invalid := FilterComponents(tt.input)
			if diff := cmp.Diff(tt.wantValid, valid); diff != "" {
				t.Errorf("valid mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantInvalid, invalid); diff != "" {
				t.Errorf("invalid mismatch (-want +got):\n%s", diff)
			}

			again, rejected := FilterComponents(valid)
			if diff := cmp.Diff(valid, again); diff != "" {
				t.Errorf("not idempotent (-first +second):\n%s", diff)
			}
			if len(rejected) != 0 {
				t.Errorf("second pass rejected %v", rejected)
			}
		})
	}
}
