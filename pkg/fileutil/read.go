package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// DefaultReadLimit bounds config files and cache manifests.
const DefaultReadLimit = 1 << 20

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadLimited reads the file at path, failing with ErrFileTooLarge when it
// holds more than limit bytes. Files that grow while being read are caught
// too.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.WithDetailf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.WithDetailf(ErrFileTooLarge, "%s exceeds limit %d", path, limit)
	}
	return data, nil
}
