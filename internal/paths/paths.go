package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// AppName names the config and cache directories.
const AppName = "setup-vulkan-sdk"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the permission for directories created by the tool.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used. Returns nil if the directory exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home")
	}
	return home, nil
}

// Expand replaces a leading "~" with the home directory and cleans the result.
// An empty path stays empty so callers can substitute a default.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.ContainsRune(path, '\x00') {
		return "", errors.WithDetailf(ErrInvalidPath, "path %q contains a null byte", path)
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "expanding %q: %v", path, err)
	}
	return filepath.Clean(expanded), nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns <ConfigHome>/setup-vulkan-sdk.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// CacheHome returns the XDG cache home directory.
func CacheHome() string {
	return xdg.CacheHome
}

// CacheDir returns the default local cache store: <CacheHome>/setup-vulkan-sdk.
func CacheDir() string {
	return filepath.Join(CacheHome(), AppName)
}

// TempDir returns the runner temp directory when set, else os.TempDir.
func TempDir() string {
	if dir := os.Getenv("RUNNER_TEMP"); dir != "" {
		return dir
	}
	return os.TempDir()
}
