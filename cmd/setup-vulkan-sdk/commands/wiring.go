package commands

import (
	"net/http"

	"github.com/thoreinstein/setup-vulkan-sdk/cmd"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/config"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/download"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform/linux"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform/mac"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform/windows"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/version"
)

// newHTTPClient is replaced in tests.
var newHTTPClient = func() *http.Client {
	return download.NewHTTPClient(cmd.Version)
}

// newRegistry registers every platform adapter.
func newRegistry(cfg *config.Config) (*platform.Registry, error) {
	reg := platform.NewRegistry()
	adapters := []platform.Platform{
		windows.New(windows.WithTimeout(cfg.InstallerTimeout), windows.WithTempDir(paths.TempDir())),
		linux.New(),
		mac.New(),
	}
	for _, p := range adapters {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// currentPlatform returns the adapter for the host.
func currentPlatform(cfg *config.Config) (platform.Platform, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return reg.Get(currentTag())
}

func newResolver(cfg *config.Config, hc *http.Client, tag platform.Tag) *version.Resolver {
	return version.NewResolver(hc, cfg.MetadataURL, tag)
}

// destination returns the expanded install root.
func destination(cfg *config.Config, p platform.Platform) (string, error) {
	dest := cfg.Destination
	if dest == "" {
		home, err := paths.ResolveHome()
		if err != nil {
			return "", err
		}
		dest = p.DefaultDestination(home)
	}
	expanded, err := paths.Expand(dest)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "destination %q", dest), errors.ErrInvalidInput)
	}
	return expanded, nil
}

// requireConfig returns the loaded config or an error when loading was
// skipped.
func requireConfig() (*config.Config, error) {
	if loadedConfig == nil {
		return nil, errors.NewUserError(errors.New("configuration not loaded"), "")
	}
	return loadedConfig, nil
}
