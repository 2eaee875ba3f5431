package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/env"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/pkg/fileutil"
)

// PlatformCheck reports whether the host has an install procedure.
type PlatformCheck struct {
	Registry *platform.Registry
	Tag      platform.Tag
	Arch     string
}

var _ Check = (*PlatformCheck)(nil)

func (c *PlatformCheck) Name() string     { return "platform" }
func (c *PlatformCheck) Category() string { return "platform" }

func (c *PlatformCheck) Run(context.Context) *CheckResult {
	details := map[string]any{"platform": string(c.Tag), "arch": c.Arch}

	p, err := c.Registry.Get(c.Tag)
	if err != nil {
		supported := make([]string, 0, 3)
		for _, tag := range c.Registry.All() {
			supported = append(supported, string(tag))
		}
		details["supported"] = supported
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("no installer for platform %q", string(c.Tag)),
			Details:  details,
			FixHint:  "run on one of: " + strings.Join(supported, ", "),
		}
	}
	if err := p.Preflight(); err != nil {
		hint := strings.Join(errors.GetAllHints(err), "; ")
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  err.Error(),
			Details:  details,
			FixHint:  hint,
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("%s-%s is supported", string(c.Tag), c.Arch),
		Details:  details,
	}
}

// InstallCheck looks for the SDK marker binary under Destination. An empty
// Version accepts any versioned directory.
type InstallCheck struct {
	Platform    platform.Platform
	Destination string
	Version     string
}

var _ Check = (*InstallCheck)(nil)

func (c *InstallCheck) Name() string     { return "sdk-install" }
func (c *InstallCheck) Category() string { return "install" }

func (c *InstallCheck) Run(context.Context) *CheckResult {
	installed := c.installedVersions()
	details := map[string]any{
		"destination": c.Destination,
		"installed":   installed,
	}

	if c.Version != "" {
		installPath := platform.VersionedPath(c.Destination, c.Version)
		marker := c.Platform.MarkerPath(installPath)
		details["marker"] = marker
		if !platform.FileExists(marker) {
			return &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityError,
				Message:  fmt.Sprintf("SDK %s is not installed in %s", c.Version, c.Destination),
				Details:  details,
				FixHint:  "run: setup-vulkan-sdk install --vulkan-version " + c.Version,
			}
		}
		if size, err := fileutil.DirSize(installPath); err == nil {
			details["size"] = humanize.Bytes(uint64(size))
		}
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("SDK %s installed at %s", c.Version, installPath),
			Details:  details,
		}
	}

	if len(installed) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "no SDK found in " + c.Destination,
			Details:  details,
			FixHint:  "run: setup-vulkan-sdk install",
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("%d SDK version(s) installed in %s", len(installed), c.Destination),
		Details:  details,
	}
}

// installedVersions lists subdirectories of Destination holding a marker.
func (c *InstallCheck) installedVersions() []string {
	entries, err := os.ReadDir(c.Destination)
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if platform.FileExists(c.Platform.MarkerPath(filepath.Join(c.Destination, e.Name()))) {
			versions = append(versions, e.Name())
		}
	}
	return versions
}

// EnvCheck verifies that VULKAN_SDK points at an existing SDK root and that
// its bin directory is on PATH.
type EnvCheck struct {
	Getenv func(string) string
}

var _ Check = (*EnvCheck)(nil)

func (c *EnvCheck) Name() string     { return "environment" }
func (c *EnvCheck) Category() string { return "environment" }

func (c *EnvCheck) Run(context.Context) *CheckResult {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	sdk := getenv(env.VarVulkanSDK)
	details := map[string]any{
		env.VarVulkanSDK: sdk,
		env.VarVulkanVer: getenv(env.VarVulkanVer),
	}

	if sdk == "" {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  env.VarVulkanSDK + " is not set in this shell",
			Details:  details,
		}
	}
	if info, err := os.Stat(sdk); err != nil || !info.IsDir() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("%s points at a missing directory: %s", env.VarVulkanSDK, sdk),
			Details:  details,
			FixHint:  "reinstall the SDK or unset " + env.VarVulkanSDK,
		}
	}

	bin := filepath.Join(sdk, "bin")
	if !slices.Contains(filepath.SplitList(getenv(env.VarPath)), bin) {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  bin + " is not on PATH",
			Details:  details,
			FixHint:  "add " + bin + " to PATH",
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  env.VarVulkanSDK + " is set and on PATH",
		Details:  details,
	}
}

// CacheDirCheck verifies that the local cache store is writable.
type CacheDirCheck struct {
	Dir string
}

var _ Check = (*CacheDirCheck)(nil)

func (c *CacheDirCheck) Name() string     { return "cache-dir" }
func (c *CacheDirCheck) Category() string { return "cache" }

func (c *CacheDirCheck) Run(context.Context) *CheckResult {
	details := map[string]any{"dir": c.Dir}

	info, err := os.Stat(c.Dir)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "cache directory does not exist yet",
			Details:  details,
		}
	}
	if err != nil || !info.IsDir() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "cache path is not a directory: " + c.Dir,
			Details:  details,
			FixHint:  "set cache_dir to a directory",
		}
	}

	if err := isDirectoryWritable(c.Dir); err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "cache directory is not writable",
			Details:  details,
			FixHint:  "check permissions on " + c.Dir,
		}
	}

	if size, err := fileutil.DirSize(c.Dir); err == nil {
		details["size"] = humanize.Bytes(uint64(size))
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "cache directory is writable",
		Details:  details,
	}
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) error {
	tmpFile, err := os.CreateTemp(path, ".setup-vulkan-sdk-doctor-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	return os.Remove(tmpPath)
}

// VersionResolver resolves a requested version to a concrete one.
type VersionResolver interface {
	Resolve(ctx context.Context, requested string) (string, error)
}

// MetadataCheck verifies that the metadata service answers.
type MetadataCheck struct {
	Resolver VersionResolver
	URL      string
}

var _ Check = (*MetadataCheck)(nil)

func (c *MetadataCheck) Name() string     { return "metadata-service" }
func (c *MetadataCheck) Category() string { return "network" }

func (c *MetadataCheck) Run(ctx context.Context) *CheckResult {
	details := map[string]any{"url": MaskURL(c.URL)}

	latest, err := c.Resolver.Resolve(ctx, "latest")
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "cannot resolve the latest version: " + err.Error(),
			Details:  details,
			FixHint:  "pin vulkan_version to a concrete version or check network access",
		}
	}
	details["latest"] = latest
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "latest version is " + latest,
		Details:  details,
	}
}
