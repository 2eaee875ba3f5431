package install

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/pkg/fileutil"
)

// Stripdown removes dirs (relative to installPath) and every top-level file
// of installPath not named in keep. Missing targets are skipped. Removal
// continues past failures; the returned error combines them.
func Stripdown(ctx context.Context, installPath string, dirs, keep []string) error {
	logger := logging.FromContext(ctx)
	logger.Info("reducing SDK size before caching", "path", installPath)

	var freed uint64
	var errs error

	for _, d := range dirs {
		target := filepath.Join(installPath, d)
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			continue
		}
		size, _ := fileutil.DirSize(target)
		if err := os.RemoveAll(target); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "removing %s", d))
			continue
		}
		freed += uint64(size)
		logger.Debug("removed directory", "path", target, "size", humanize.Bytes(uint64(size)))
	}

	entries, err := os.ReadDir(installPath)
	if err != nil {
		return errors.CombineErrors(errs, errors.Wrap(err, "reading install path"))
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || slices.Contains(keep, e.Name()) {
			continue
		}
		target := filepath.Join(installPath, e.Name())
		info, err := e.Info()
		if err == nil {
			freed += uint64(info.Size())
		}
		if err := os.Remove(target); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "removing %s", e.Name()))
			continue
		}
		logger.Debug("removed file", "path", target)
	}

	logger.Info("stripdown finished", "freed", humanize.Bytes(freed))
	return errs
}
