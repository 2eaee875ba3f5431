package cache

import (
	"path"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// ErrInvalidKey indicates a key unusable as a file name or a restore key that
// is not a valid pattern.
var ErrInvalidKey = errors.New("invalid cache key")

// Key returns the primary cache key for an artifact kind.
func Key(kind, version string, tag platform.Tag, arch string) string {
	return strings.Join([]string{"cache", kind, version, string(tag), arch}, "-")
}

// RestoreKeys returns the fallback patterns matching any version of kind for
// the same platform and architecture.
func RestoreKeys(kind string, tag platform.Tag, arch string) []string {
	return []string{Key(kind, "*", tag, arch)}
}

// Match reports whether key matches pattern. Patterns use path.Match syntax.
func Match(pattern, key string) (bool, error) {
	ok, err := path.Match(pattern, key)
	if err != nil {
		return false, errors.Mark(errors.Wrapf(err, "restore key %q", pattern), ErrInvalidKey)
	}
	return ok, nil
}

// validateKey rejects keys that cannot be stored as a file name.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\*?[]`) || key == "." || key == ".." {
		return errors.WithDetailf(ErrInvalidKey, "key %q", key)
	}
	return nil
}
