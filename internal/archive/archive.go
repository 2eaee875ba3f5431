// Package archive extracts SDK archives and packs cache entries.
//
// Extraction rejects entries that would escape the destination directory.
// Symlinks are created after all regular files so links pointing forward in
// the archive resolve.
package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
)

// ErrUnsafePath indicates an archive entry pointing outside the destination.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// maxEntrySize caps a single entry to guard against decompression bombs.
const maxEntrySize = 4 << 30

// ExtractOption adjusts how entries are mapped into the destination.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	stripRoot string
}

// StripRoot removes a leading root/ element from entry names, so a tarball
// wrapped in root/ and an unwrapped one extract to the same layout. Entries
// outside root keep their names.
func StripRoot(root string) ExtractOption {
	return func(c *extractConfig) { c.stripRoot = root }
}

func (c *extractConfig) entryName(name string) string {
	if c.stripRoot == "" {
		return name
	}
	first, rest, _ := strings.Cut(strings.TrimPrefix(name, "./"), "/")
	if first != c.stripRoot {
		return name
	}
	if rest == "" {
		return "."
	}
	return rest
}

// ExtractTarGz extracts a gzip-compressed tarball into dest.
func ExtractTarGz(ctx context.Context, src, dest string, opts ...ExtractOption) error {
	f, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening tarball")
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "reading gzip header of %s", filepath.Base(src))
	}
	defer gzr.Close()

	return ExtractTar(ctx, gzr, dest, opts...)
}

type pendingLink struct {
	path   string
	target string
	hard   bool
}

// ExtractTar extracts an uncompressed tar stream into dest.
func ExtractTar(ctx context.Context, r io.Reader, dest string, opts ...ExtractOption) error {
	logger := logging.FromContext(ctx)

	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrap(err, "creating destination directory")
	}

	tr := tar.NewReader(r)
	var links []pendingLink

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading tar entry")
		}

		target, err := safeJoin(dest, cfg.entryName(hdr.Name))
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %s", hdr.Name)
			}
		case tar.TypeReg:
			logger.Log(ctx, logging.LevelTrace, "extracting", "entry", hdr.Name)
			if err := writeFile(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return errors.Wrapf(err, "extracting %s", hdr.Name)
			}
		case tar.TypeSymlink:
			links = append(links, pendingLink{path: target, target: hdr.Linkname})
		case tar.TypeLink:
			linkTarget, err := safeJoin(dest, cfg.entryName(hdr.Linkname))
			if err != nil {
				return err
			}
			links = append(links, pendingLink{path: target, target: linkTarget, hard: true})
		default:
			logger.Debug("skipping unsupported tar entry", "entry", hdr.Name, "type", string(hdr.Typeflag))
		}
	}

	for _, l := range links {
		if err := createLink(l); err != nil {
			logger.Warn("failed to create link", "path", l.path, "target", l.target, "err", err)
		}
	}
	return nil
}

// ExtractZip extracts a zip archive into dest.
func ExtractZip(ctx context.Context, src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return errors.Wrapf(err, "opening zip %s", filepath.Base(src))
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrap(err, "creating destination directory")
	}

	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, zf.Name)
		if err != nil {
			return err
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %s", zf.Name)
			}
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return errors.Wrapf(err, "opening %s", zf.Name)
		}
		perm := zf.Mode().Perm()
		if perm == 0 {
			perm = 0o644
		}
		err = writeFile(target, rc, perm)
		rc.Close()
		if err != nil {
			return errors.Wrapf(err, "extracting %s", zf.Name)
		}
	}
	return nil
}

// safeJoin joins name onto dest and rejects results outside dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.WithDetailf(ErrUnsafePath, "entry %q", name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		out.Close()
		return err
	}
	if n > maxEntrySize {
		out.Close()
		return errors.Newf("entry exceeds %d bytes", int64(maxEntrySize))
	}
	return out.Close()
}

func createLink(l pendingLink) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	_ = os.Remove(l.path)
	if l.hard {
		return os.Link(l.target, l.path)
	}
	return os.Symlink(l.target, l.path)
}
