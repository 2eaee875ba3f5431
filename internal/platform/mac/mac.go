// Package mac implements the macOS platform adapter.
//
// The macOS SDK ships as a disk image. Installing it is not supported; the
// adapter fails in Preflight so nothing is downloaded.
package mac

import (
	"context"
	"path/filepath"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// Adapter implements platform.Platform for macOS.
type Adapter struct{}

var _ platform.Platform = (*Adapter)(nil)

// New creates a macOS adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Tag() platform.Tag { return platform.Mac }

func (a *Adapter) SDKFilename(version string) string {
	return "vulkansdk-macos-" + version + ".dmg"
}

func (a *Adapter) RuntimeFilename(string) (string, bool) { return "", false }

func (a *Adapter) DefaultDestination(home string) string {
	return filepath.Join(home, "vulkan-sdk")
}

func (a *Adapter) Preflight() error {
	return errors.WithHint(
		errors.WithDetail(errors.ErrNotImplemented, "installing the macOS SDK disk image is not supported"),
		"install the SDK on macOS runners with the LunarG installer directly",
	)
}

func (a *Adapter) Install(context.Context, platform.InstallRequest) (string, error) {
	return "", a.Preflight()
}

func (a *Adapter) InstallRuntime(context.Context, string, string) (string, error) {
	return "", errors.WithDetail(errors.ErrNotImplemented, "runtime components are only published for windows")
}

func (a *Adapter) SDKRoot(installPath string) string {
	return filepath.Join(installPath, "x86_64")
}

func (a *Adapter) MarkerPath(installPath string) string {
	return filepath.Join(installPath, "x86_64", "bin", "vulkaninfo")
}

func (a *Adapter) RuntimeMarkerPath(string) (string, bool) { return "", false }

func (a *Adapter) StripdownTargets() (dirs, keepFiles []string) {
	return []string{"source", "samples", filepath.Join("x86_64", "share", "doc")}, nil
}

func (a *Adapter) Environment(installPath, version string) []env.Change {
	return platform.CommonEnvironment(a.SDKRoot(installPath), version)
}
