package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/version"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidURL indicates a base URL is not absolute http(s).
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidTimeout indicates a non-positive installer timeout.
	ErrInvalidTimeout = errors.New("installer_timeout must be positive")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors. Every returned error
// matches errors.ErrInvalidInput.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.Mark(errors.New("config is nil"), errors.ErrInvalidInput)}
	}

	var errs []error
	add := func(err error) {
		errs = append(errs, errors.Mark(err, errors.ErrInvalidInput))
	}

	if err := version.Validate(cfg.VulkanVersion); err != nil {
		add(err)
	}

	for field, p := range map[string]string{
		KeyDestination: cfg.Destination,
		KeyCacheDir:    cfg.CacheDir,
	} {
		if err := validatePath(p); err != nil {
			add(&FieldError{Field: field, Value: p, Err: err})
		}
	}

	for field, u := range map[string]string{
		KeyMetadataURL: cfg.MetadataURL,
		KeyDownloadURL: cfg.DownloadURL,
	} {
		if err := validateURL(u); err != nil {
			add(&FieldError{Field: field, Value: u, Err: err})
		}
	}

	if cfg.InstallerTimeout <= 0 {
		add(ErrInvalidTimeout)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// empty means "use default"
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
