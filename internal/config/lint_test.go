package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/validator"
)

func validConfig() *Config {
	return &Config{
		VulkanVersion:    DefaultVersion,
		InstallerTimeout: DefaultInstallerTimeout,
		MetadataURL:      DefaultMetadataURL,
		DownloadURL:      DefaultDownloadURL,
	}
}

func fields(issues []validator.Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestLint_Clean(t *testing.T) {
	r := Lint(validConfig(), platform.Linux)
	assert.Empty(t, r.Issues)
}

func TestLint_Errors(t *testing.T) {
	cfg := validConfig()
	cfg.VulkanVersion = "1.3"
	cfg.DownloadURL = "ftp://example.com"
	cfg.InstallerTimeout = -time.Second

	r := Lint(cfg, platform.Windows)
	require.True(t, r.HasErrors())
	assert.ElementsMatch(t, []string{KeyVulkanVersion, KeyDownloadURL, KeyInstallerTimeout}, fields(r.Errors()))

	for _, i := range r.Errors() {
		switch i.Field {
		case KeyVulkanVersion:
			assert.Equal(t, "1.3", i.Value)
			assert.NotEmpty(t, i.Hint)
		case KeyDownloadURL:
			assert.Equal(t, "ftp://example.com", i.Value)
		}
	}
}

func TestLint_Warnings(t *testing.T) {
	cfg := validConfig()
	cfg.Stripdown = true
	cfg.InstallRuntime = true
	cfg.OptionalComponents = []string{"com.lunarg.vulkan.vma,bogus"}

	linux := Lint(cfg, platform.Linux)
	assert.False(t, linux.HasErrors())
	assert.Equal(t,
		[]string{KeyOptionalComponents, KeyStripdown, KeyInstallRuntime, KeyOptionalComponents},
		fields(linux.Warnings()))

	windows := Lint(cfg, platform.Windows)
	assert.Equal(t, []string{KeyOptionalComponents, KeyStripdown}, fields(windows.Warnings()))
}

func TestLint_Nil(t *testing.T) {
	r := Lint(nil, platform.Linux)
	assert.True(t, r.HasErrors())
}
