package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// InstallRequest describes one SDK installation.
type InstallRequest struct {
	// Archive is the local path of the downloaded installer or tarball.
	Archive string

	// Destination is the root directory. The SDK lands in Destination/Version.
	Destination string

	// Version is the concrete dotted SDK version.
	Version string

	// Components are optional installer component IDs, already filtered.
	Components []string
}

// InstallPath returns Destination/Version.
func (r InstallRequest) InstallPath() string {
	return VersionedPath(r.Destination, r.Version)
}

// Platform defines the contract for platform adapters.
//
// Path-returning methods are pure and never touch the filesystem.
type Platform interface {
	// Tag returns the platform identifier.
	Tag() Tag

	// SDKFilename returns the remote filename of the SDK artifact.
	SDKFilename(version string) string

	// RuntimeFilename returns the remote filename of the runtime components
	// package, and false when the platform has none.
	RuntimeFilename(version string) (string, bool)

	// DefaultDestination returns the install root used when none is
	// configured.
	DefaultDestination(home string) string

	// Preflight reports whether an install can proceed on this platform.
	// It runs before any download.
	Preflight() error

	// Install installs the SDK and returns the install path.
	Install(ctx context.Context, req InstallRequest) (string, error)

	// InstallRuntime installs the runtime components archive under
	// installPath and returns the runtime directory.
	InstallRuntime(ctx context.Context, archivePath, installPath string) (string, error)

	// SDKRoot returns the directory exported as VULKAN_SDK.
	SDKRoot(installPath string) string

	// MarkerPath returns the binary whose presence proves the install.
	MarkerPath(installPath string) string

	// RuntimeMarkerPath returns the file proving the runtime install, and
	// false when the platform has no runtime package.
	RuntimeMarkerPath(installPath string) (string, bool)

	// StripdownTargets returns directories removed by stripdown, relative to
	// the install path, and top-level files kept.
	StripdownTargets() (dirs, keepFiles []string)

	// Environment returns the variables to publish for installPath.
	Environment(installPath, version string) []env.Change
}

// InstallError reports a failed installer invocation.
type InstallError struct {
	// Args are the installer arguments, without the executable.
	Args []string

	// ExitCode is the installer exit code, or -1 when it did not exit
	// on its own.
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("installer exited with code %d (args: %s): %v", e.ExitCode, strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("installer failed (args: %s): %v", strings.Join(e.Args, " "), e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrInstallationFailed.
func (e *InstallError) Is(target error) bool {
	return target == errors.ErrInstallationFailed
}

// VersionedPath returns dest/version.
func VersionedPath(dest, version string) string {
	return filepath.Join(dest, version)
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CommonEnvironment returns VULKAN_SDK, VULKAN_VERSION and the PATH prefix
// for sdkRoot.
func CommonEnvironment(sdkRoot, version string) []env.Change {
	return []env.Change{
		{Key: env.VarVulkanSDK, Value: sdkRoot},
		{Key: env.VarVulkanVer, Value: version},
		{Key: env.VarPath, Value: filepath.Join(sdkRoot, "bin"), Mode: env.Prepend},
	}
}
