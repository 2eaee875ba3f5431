package archive

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// PackTarZst writes the contents of each root into w as a zstd-compressed
// tarball. The contents of roots[i] are stored under the entry prefix "<i>/".
func PackTarZst(ctx context.Context, w io.Writer, roots ...string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "creating zstd writer")
	}
	tw := tar.NewWriter(zw)

	for i, root := range roots {
		if err := addTree(ctx, tw, strconv.Itoa(i), root); err != nil {
			tw.Close()
			zw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		zw.Close()
		return errors.Wrap(err, "closing tar writer")
	}
	return errors.Wrap(zw.Close(), "closing zstd writer")
}

// UnpackTarZst extracts a zstd-compressed tarball produced by PackTarZst into
// dest. The contents of roots[i] end up in dest/<i>.
func UnpackTarZst(ctx context.Context, r io.Reader, dest string) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "creating zstd reader")
	}
	defer zr.Close()

	return ExtractTar(ctx, zr, dest)
}

func addTree(ctx context.Context, tw *tar.Writer, prefix, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "relativizing %s", path)
		}
		rel = filepath.Join(prefix, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return errors.Wrapf(err, "reading link %s", path)
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return errors.Wrapf(err, "building header for %s", path)
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return errors.Wrapf(err, "writing header for %s", rel)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return errors.Wrapf(err, "writing %s", rel)
	})
}
