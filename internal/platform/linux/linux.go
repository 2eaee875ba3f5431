// Package linux implements the Linux platform adapter.
//
// The SDK ships as a tar.gz whose single top-level directory is the version.
package linux

import (
	"context"
	"path/filepath"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/archive"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// Adapter implements platform.Platform for Linux.
type Adapter struct{}

var _ platform.Platform = (*Adapter)(nil)

// New creates a Linux adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Tag() platform.Tag { return platform.Linux }

func (a *Adapter) SDKFilename(version string) string {
	return "vulkansdk-linux-x86_64-" + version + ".tar.gz"
}

func (a *Adapter) RuntimeFilename(string) (string, bool) { return "", false }

func (a *Adapter) DefaultDestination(home string) string {
	return filepath.Join(home, "vulkan-sdk")
}

func (a *Adapter) Preflight() error { return nil }

// Install extracts the tarball into Destination/Version in one pass. A
// leading version directory in the archive is dropped.
func (a *Adapter) Install(ctx context.Context, req platform.InstallRequest) (string, error) {
	logger := logging.FromContext(ctx)
	installPath := req.InstallPath()

	logger.Info("extracting SDK", "archive", filepath.Base(req.Archive), "destination", installPath)
	if err := archive.ExtractTarGz(ctx, req.Archive, installPath, archive.StripRoot(req.Version)); err != nil {
		return "", errors.Mark(errors.Wrap(err, "extracting SDK"), errors.ErrInstallationFailed)
	}
	return installPath, nil
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
	return []string{"source", "samples", filepath.Join("x86_64", "share", "doc")}, []string{"setup-env.sh"}
}

// Environment adds the library and layer paths the loader needs when the SDK
// is not installed system wide.
func (a *Adapter) Environment(installPath, version string) []env.Change {
	root := a.SDKRoot(installPath)
	changes := platform.CommonEnvironment(root, version)
	return append(changes,
		env.Change{Key: env.VarLibraryPath, Value: filepath.Join(root, "lib"), Mode: env.Prepend},
		env.Change{Key: env.VarVkLayerPath, Value: filepath.Join(root, "share", "vulkan", "explicit_layer.d")},
	)
}
