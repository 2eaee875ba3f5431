package env

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
)

// Well-known variable names.
const (
	VarPath        = "PATH"
	VarVulkanSDK   = "VULKAN_SDK"
	VarVulkanVer   = "VULKAN_VERSION"
	VarLibraryPath = "LD_LIBRARY_PATH"
	VarVkLayerPath = "VK_LAYER_PATH"
	VarGitHubEnv   = "GITHUB_ENV"
	VarGitHubPath  = "GITHUB_PATH"
)

// Mode selects how a Change is applied.
type Mode int

const (
	// Set replaces the variable.
	Set Mode = iota
	// Prepend adds Value to the front of a path list variable unless it is
	// already the first element.
	Prepend
)

func (m Mode) String() string {
	if m == Prepend {
		return "prepend"
	}
	return "set"
}

// Change is a single environment mutation.
type Change struct {
	Key   string
	Value string
	Mode  Mode
}

// Sink receives environment changes.
type Sink interface {
	Apply(ctx context.Context, c Change) error
}

// Publisher fans changes out to its sinks.
type Publisher struct {
	sinks []Sink
}

// NewPublisher creates a Publisher writing to sinks in order.
func NewPublisher(sinks ...Sink) *Publisher {
	return &Publisher{sinks: sinks}
}

// Publish applies every change to every sink. All sinks are attempted; the
// returned error combines individual failures.
func (p *Publisher) Publish(ctx context.Context, changes []Change) error {
	logger := logging.FromContext(ctx)

	var errs error
	for _, c := range changes {
		if err := validate(c); err != nil {
			errs = errors.CombineErrors(errs, err)
			continue
		}
		for _, s := range p.sinks {
			if err := s.Apply(ctx, c); err != nil {
				errs = errors.CombineErrors(errs, errors.Wrapf(err, "publishing %s", c.Key))
			}
		}
		logger.Debug("published environment variable", "key", c.Key, "value", c.Value, "mode", c.Mode)
	}
	return errs
}

// PrependList returns value prepended to the list prev. If value is already
// the first element, prev is returned unchanged.
func PrependList(value, prev string) string {
	if prev == "" {
		return value
	}
	first, _, _ := strings.Cut(prev, string(os.PathListSeparator))
	if filepath.Clean(first) == filepath.Clean(value) {
		return prev
	}
	return value + string(os.PathListSeparator) + prev
}

func validate(c Change) error {
	if c.Key == "" || strings.ContainsAny(c.Key, "=\n\r") {
		return errors.Mark(errors.Newf("invalid variable name %q", c.Key), errors.ErrInvalidInput)
	}
	if strings.ContainsAny(c.Value, "\n\r") {
		return errors.Mark(errors.Newf("value of %s contains a newline", c.Key), errors.ErrInvalidInput)
	}
	return nil
}

// ProcessSink applies changes to the current process environment.
type ProcessSink struct{}

// Apply implements Sink.
func (ProcessSink) Apply(_ context.Context, c Change) error {
	value := c.Value
	if c.Mode == Prepend {
		value = PrependList(c.Value, os.Getenv(c.Key))
	}
	return os.Setenv(c.Key, value)
}
