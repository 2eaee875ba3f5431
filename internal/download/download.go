package download

import (
	"context"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// DefaultBaseURL is the base URL of the SDK download service.
const DefaultBaseURL = "https://sdk.lunarg.com"

// Kind names a downloadable artifact. It doubles as the cache kind.
type Kind string

// Artifact kinds.
const (
	KindSDK     Kind = "vulkan-sdk"
	KindRuntime Kind = "vulkan-runtime"
)

// Descriptor identifies one remote artifact.
type Descriptor struct {
	Kind     Kind
	Version  string
	Tag      platform.Tag
	Filename string
	URL      string
	// Size is the probed Content-Length, or -1.
	Size int64
}

// URL builds the download URL for filename.
func URL(base string, tag platform.Tag, version, filename string) string {
	return strings.TrimRight(base, "/") + "/sdk/download/" + version + "/" + string(tag) + "/" + filename
}

// Orchestrator resolves artifact names through a platform adapter and
// downloads them with a Client.
type Orchestrator struct {
	client   *Client
	baseURL  string
	platform platform.Platform
	dir      string
}

// NewOrchestrator creates an Orchestrator downloading into dir. An empty
// baseURL uses DefaultBaseURL.
func NewOrchestrator(client *Client, baseURL string, p platform.Platform, dir string) *Orchestrator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Orchestrator{client: client, baseURL: baseURL, platform: p, dir: dir}
}

// Filename returns the remote filename of kind for version, and false when
// the platform does not publish that kind.
func (o *Orchestrator) Filename(kind Kind, version string) (string, bool) {
	switch kind {
	case KindSDK:
		return o.platform.SDKFilename(version), true
	case KindRuntime:
		return o.platform.RuntimeFilename(version)
	}
	return "", false
}

// Prepare builds the artifact URL and probes it.
func (o *Orchestrator) Prepare(ctx context.Context, kind Kind, version string) (Descriptor, error) {
	filename, ok := o.Filename(kind, version)
	if !ok {
		return Descriptor{}, errors.WithDetailf(errors.ErrNotImplemented, "no %s artifact for platform %s", string(kind), string(o.platform.Tag()))
	}

	d := Descriptor{
		Kind:     kind,
		Version:  version,
		Tag:      o.platform.Tag(),
		Filename: filename,
		URL:      URL(o.baseURL, o.platform.Tag(), version, filename),
	}
	size, err := o.client.Probe(ctx, d.URL, version)
	if err != nil {
		return Descriptor{}, err
	}
	d.Size = size
	logging.FromContext(ctx).Debug("artifact available", "kind", string(kind), "url", d.URL, "size", humanSize(size))
	return d, nil
}

// Download prepares and fetches kind for version and returns the local path.
func (o *Orchestrator) Download(ctx context.Context, kind Kind, version string) (string, error) {
	d, err := o.Prepare(ctx, kind, version)
	if err != nil {
		return "", err
	}
	return o.client.Fetch(ctx, d, o.dir)
}
