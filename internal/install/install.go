package install

import (
	"context"
	"os"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/cache"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/download"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// Downloader fetches an artifact and returns its local path.
type Downloader interface {
	Download(ctx context.Context, kind download.Kind, version string) (string, error)
}

// Request describes one install.
type Request struct {
	// Version is the concrete SDK version.
	Version string

	// Destination is the install root; the SDK lands in Destination/Version.
	Destination string

	InstallRuntime bool
	UseCache       bool

	// Stripdown removes non-essential files before saving to the cache.
	// It has no effect when UseCache is false.
	Stripdown bool

	// OptionalComponents are passed to the installer as is.
	OptionalComponents []string
}

// Result describes a finished install.
type Result struct {
	InstallPath     string
	SDKRoot         string
	Version         string
	Verified        bool
	RuntimeVerified bool
	CacheHit        bool
	CacheKey        string
}

// Orchestrator runs the install pipeline.
type Orchestrator struct {
	platform   platform.Platform
	downloader Downloader
	cache      *cache.Bridge
	arch       string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCache enables cache restore and save through b.
func WithCache(b *cache.Bridge) Option {
	return func(o *Orchestrator) { o.cache = b }
}

// WithArch overrides the architecture label used in cache keys.
func WithArch(arch string) Option {
	return func(o *Orchestrator) { o.arch = arch }
}

// NewOrchestrator creates an Orchestrator for p.
func NewOrchestrator(p platform.Platform, d Downloader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		platform:   p,
		downloader: d,
		arch:       platform.CurrentArch(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CacheKeys returns the primary and restore keys for version.
func (o *Orchestrator) CacheKeys(version string) (string, []string) {
	kind := string(download.KindSDK)
	tag := o.platform.Tag()
	return cache.Key(kind, version, tag, o.arch), cache.RestoreKeys(kind, tag, o.arch)
}

// Run installs the SDK described by req.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	logger := logging.FromContext(ctx).With("version", req.Version, "platform", string(o.platform.Tag()))
	ctx = logging.NewContext(ctx, logger)

	if req.Version == "" || req.Destination == "" {
		return nil, errors.Mark(errors.New("version and destination are required"), errors.ErrInvalidInput)
	}

	installPath := platform.VersionedPath(req.Destination, req.Version)
	key, restoreKeys := o.CacheKeys(req.Version)
	res := &Result{
		InstallPath: installPath,
		SDKRoot:     o.platform.SDKRoot(installPath),
		Version:     req.Version,
		CacheKey:    key,
	}

	useCache := req.UseCache && o.cache != nil
	if useCache && o.restore(ctx, req, key, restoreKeys) {
		res.CacheHit = true
		o.verify(ctx, req, res)
		return res, nil
	}

	if err := o.platform.Preflight(); err != nil {
		return nil, err
	}

	archive, err := o.downloader.Download(ctx, download.KindSDK, req.Version)
	if err != nil {
		return nil, err
	}
	defer removeArchive(ctx, archive)

	if len(req.OptionalComponents) > 0 {
		logger.Info("installing optional components", "components", req.OptionalComponents)
	}
	installed, err := o.platform.Install(ctx, platform.InstallRequest{
		Archive:     archive,
		Destination: req.Destination,
		Version:     req.Version,
		Components:  req.OptionalComponents,
	})
	if err != nil {
		return nil, err
	}
	res.InstallPath = installed
	res.SDKRoot = o.platform.SDKRoot(installed)
	logger.Info("installed SDK", "path", installed)

	if req.InstallRuntime {
		if err := o.installRuntime(ctx, req.Version, installed); err != nil {
			return nil, err
		}
	}

	if useCache {
		if req.Stripdown {
			dirs, keep := o.platform.StripdownTargets()
			if err := Stripdown(ctx, installed, dirs, keep); err != nil {
				logger.Warn("stripdown failed, caching full install", "err", err)
			}
		}
		if id := o.cache.Save(ctx, []string{req.Destination}, key); id != -1 {
			logger.Info("saved SDK to cache", "key", key, "id", id)
		}
	}

	o.verify(ctx, req, res)
	return res, nil
}

// restore reports whether the cache produced a usable install.
func (o *Orchestrator) restore(ctx context.Context, req Request, key string, restoreKeys []string) bool {
	logger := logging.FromContext(ctx)

	matched := o.cache.Restore(ctx, []string{req.Destination}, key, restoreKeys)
	switch {
	case matched == "":
		return false
	case matched == key:
		logger.Info("restored SDK from cache", "key", key, "path", req.Destination)
		return true
	}

	marker := o.platform.MarkerPath(platform.VersionedPath(req.Destination, req.Version))
	if platform.FileExists(marker) {
		logger.Info("restored SDK from fallback cache entry", "key", matched, "path", req.Destination)
		return true
	}
	logger.Info("fallback cache entry does not contain the requested version, installing", "key", matched)
	return false
}

func (o *Orchestrator) installRuntime(ctx context.Context, version, installPath string) error {
	logger := logging.FromContext(ctx)

	if _, ok := o.platform.RuntimeFilename(version); !ok {
		logger.Info("runtime components are not published for this platform, skipping")
		return nil
	}

	archive, err := o.downloader.Download(ctx, download.KindRuntime, version)
	if err != nil {
		return err
	}
	defer removeArchive(ctx, archive)

	runtimePath, err := o.platform.InstallRuntime(ctx, archive, installPath)
	if err != nil {
		return err
	}
	logger.Info("installed runtime components", "path", runtimePath)
	return nil
}

func (o *Orchestrator) verify(ctx context.Context, req Request, res *Result) {
	logger := logging.FromContext(ctx)

	res.Verified = Verify(o.platform, res.InstallPath)
	if res.Verified {
		logger.Info("verified SDK install", "marker", o.platform.MarkerPath(res.InstallPath))
	} else {
		logger.Warn("could not find SDK marker binary", "marker", o.platform.MarkerPath(res.InstallPath))
	}

	if !req.InstallRuntime {
		return
	}
	if marker, ok := o.platform.RuntimeMarkerPath(res.InstallPath); ok {
		res.RuntimeVerified = platform.FileExists(marker)
		if !res.RuntimeVerified {
			logger.Warn("could not find runtime components", "marker", marker)
		}
	}
}

// Verify reports whether the marker binary exists under installPath.
func Verify(p platform.Platform, installPath string) bool {
	return platform.FileExists(p.MarkerPath(installPath))
}

func removeArchive(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.FromContext(ctx).Debug("failed to remove downloaded archive", "path", path, "err", err)
	}
}
