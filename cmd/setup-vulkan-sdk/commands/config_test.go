package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/config"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

func TestConfigShow_MergesSources(t *testing.T) {
	t.Setenv("INPUT_CACHE", "true")

	out, _, err := execute(t, "config", "--vulkan-version", testVersion, "--installer-timeout", "5m")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, testVersion, cfg.VulkanVersion)
	assert.True(t, cfg.Cache)
	assert.Equal(t, 5*time.Minute, cfg.InstallerTimeout)
	assert.Equal(t, config.DefaultDownloadURL, cfg.DownloadURL)
}

func TestConfigValidate(t *testing.T) {
	withTag(t, platform.Linux)

	out, _, err := execute(t, "config", "validate", "--format", "actions",
		"--vulkan-version", "1.3", "--stripdown")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.Classify(err).Code)
	assert.Contains(t, out, "::error title=vulkan_version::")
	assert.Contains(t, out, "::warning title=stripdown::")
}

func TestConfigValidate_Clean(t *testing.T) {
	withTag(t, platform.Linux)

	out, _, err := execute(t, "config", "validate", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"issues": null}`, out)
}

func TestConfigInit(t *testing.T) {
	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote setup-vulkan-sdk.yaml\n", out)

	data, err := os.ReadFile(filepath.Join(".", "setup-vulkan-sdk.yaml"))
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.DefaultVersion, cfg.VulkanVersion)
	assert.Equal(t, config.DefaultInstallerTimeout, cfg.InstallerTimeout)

	// the working directory survives isolate, so a second run sees the file
	resetFlags(rootCmd)
	configInitGlobal, configInitForce = false, false
	rootCmd.SetArgs([]string{"config", "init"})
	err = Execute(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigShow_Formats(t *testing.T) {
	out, _, err := execute(t, "config", "show", "--output", "toml", "--cache")
	require.NoError(t, err)
	assert.Contains(t, out, "cache = true")
	assert.Contains(t, out, "installer_timeout = ")
	assert.Contains(t, out, "30m0s")

	out, _, err = execute(t, "config", "show", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"vulkan_version": "latest"`)
	assert.Contains(t, out, `"optional_components": []`)

	_, _, err = execute(t, "config", "show", "--output", "ini")
	require.Error(t, err)
}
