// Package windows implements the Windows platform adapter.
//
// The SDK ships as an installer executable driven through PowerShell with
// elevation. The runtime components ship as a zip whose top-level folder is
// flattened into <install>/runtime.
package windows

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/archive"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/process"
	"github.com/thoreinstein/setup-vulkan-sdk/pkg/fileutil"
)

// DefaultTimeout bounds the installer run when no timeout is configured.
// The elevated installer is stopped by the PowerShell wrapper when it runs
// past the timeout. PowerShell itself is killed StopGrace later if it does
// not return, which leaves an installer it failed to stop running.
const DefaultTimeout = 30 * time.Minute

// StopGrace is how long the PowerShell wrapper gets to stop a timed-out
// installer.
const StopGrace = time.Minute

// RuntimeFilename is the remote name of the runtime components package.
const RuntimeFilename = "vulkan-runtime-components.zip"

// Adapter implements platform.Platform for Windows.
type Adapter struct {
	runner    process.Runner
	timeout   time.Duration
	stopGrace time.Duration
	tempDir   string
}

var _ platform.Platform = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithRunner sets the process runner used for the installer.
func WithRunner(r process.Runner) Option {
	return func(a *Adapter) { a.runner = r }
}

// WithTimeout bounds the installer run.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// WithTempDir sets the parent directory for runtime staging.
func WithTempDir(dir string) Option {
	return func(a *Adapter) { a.tempDir = dir }
}

// New creates a Windows adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		runner:    process.ExecRunner{},
		timeout:   DefaultTimeout,
		stopGrace: StopGrace,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tempDir == "" {
		a.tempDir = paths.TempDir()
	}
	return a
}

func (a *Adapter) Tag() platform.Tag { return platform.Windows }

func (a *Adapter) SDKFilename(version string) string {
	return "VulkanSDK-" + version + "-Installer.exe"
}

func (a *Adapter) RuntimeFilename(string) (string, bool) {
	return RuntimeFilename, true
}

func (a *Adapter) DefaultDestination(string) string {
	return `C:\VulkanSDK`
}

func (a *Adapter) Preflight() error { return nil }

// InstallerArgs returns the installer arguments for req.
func InstallerArgs(req platform.InstallRequest) []string {
	args := []string{
		"--root", req.InstallPath(),
		"--accept-licenses",
		"--default-answer",
		"--confirm-command",
		"install",
	}
	return append(args, req.Components...)
}

// argLine joins args for Start-Process -ArgumentList, double-quoting
// arguments that contain spaces.
func argLine(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			arg = `"` + arg + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}

// Install runs the SDK installer elevated and waits for it to exit.
func (a *Adapter) Install(ctx context.Context, req platform.InstallRequest) (string, error) {
	logger := logging.FromContext(ctx)

	args := InstallerArgs(req)
	logger.Info("running installer", "installer", filepath.Base(req.Archive), "args", strings.Join(args, " "), "timeout", a.timeout)

	psArgs := process.ElevatedCommand(req.Archive, argLine(args), a.timeout)
	bound := a.timeout
	if bound > 0 {
		bound += a.stopGrace
	}
	if err := process.RunWithTimeout(ctx, a.runner, bound, process.PowerShell, psArgs...); err != nil {
		code := process.ExitCode(err)
		if code == process.TimeoutExitCode {
			err = errors.Wrapf(process.ErrTimeout, "installer stopped after %s", a.timeout)
		}
		return "", &platform.InstallError{Args: args, ExitCode: code, Err: err}
	}
	return req.InstallPath(), nil
}

// InstallRuntime extracts the runtime zip to a staging directory and copies
// the contents of its top-level folder into installPath/runtime.
func (a *Adapter) InstallRuntime(ctx context.Context, archivePath, installPath string) (string, error) {
	logger := logging.FromContext(ctx)

	staging, err := os.MkdirTemp(a.tempDir, "vulkan-runtime-*")
	if err != nil {
		return "", errors.Wrap(err, "creating runtime staging directory")
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logger.Warn("failed to remove runtime staging directory", "path", staging, "err", err)
		}
	}()

	if err := archive.ExtractZip(ctx, archivePath, staging); err != nil {
		return "", errors.Mark(errors.Wrap(err, "extracting runtime components"), errors.ErrInstallationFailed)
	}

	top, err := fileutil.SingleSubdir(staging)
	if err != nil {
		return "", errors.Mark(err, errors.ErrInstallationFailed)
	}

	runtimePath := filepath.Join(installPath, "runtime")
	if err := fileutil.CopyDir(top, runtimePath); err != nil {
		return "", errors.Mark(errors.Wrap(err, "copying runtime components"), errors.ErrInstallationFailed)
	}
	logger.Debug("installed runtime components", "path", runtimePath)
	return runtimePath, nil
}

func (a *Adapter) SDKRoot(installPath string) string { return installPath }

func (a *Adapter) MarkerPath(installPath string) string {
	return filepath.Join(installPath, "bin", "vulkaninfoSDK.exe")
}

func (a *Adapter) RuntimeMarkerPath(installPath string) (string, bool) {
	return filepath.Join(installPath, "runtime", "x64", "vulkan-1.dll"), true
}

func (a *Adapter) StripdownTargets() (dirs, keepFiles []string) {
	return []string{"Demos", "Helpers", "installerResources", "Licenses", "Templates"}, nil
}

func (a *Adapter) Environment(installPath, version string) []env.Change {
	return platform.CommonEnvironment(a.SDKRoot(installPath), version)
}
