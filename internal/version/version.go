// Package version turns a requested SDK version into a concrete one.
//
// Concrete four-part versions pass through without network access. "latest"
// and the empty string are resolved against the LunarG metadata service.
package version

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
)

// Latest is the keyword selecting the newest published SDK.
const Latest = "latest"

// DefaultMetadataURL is the base URL of the version metadata service.
const DefaultMetadataURL = "https://vulkan.lunarg.com"

// maxBody caps metadata responses.
const maxBody = 1 << 20

var dotted = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// IsConcrete reports whether v is a four-part dotted version.
func IsConcrete(v string) bool {
	return dotted.MatchString(v)
}

// Validate rejects anything other than "", "latest" or a concrete version.
func Validate(requested string) error {
	v := strings.TrimSpace(requested)
	if v == "" || strings.EqualFold(v, Latest) || IsConcrete(v) {
		return nil
	}
	return errors.WithHint(
		errors.Mark(errors.Newf("invalid vulkan_version %q", requested), errors.ErrInvalidInput),
		`use "latest" or a four-part version such as 1.3.250.1`,
	)
}

// LatestVersions is the body of {base}/sdk/latest.json.
type LatestVersions struct {
	Windows string `json:"windows"`
	Linux   string `json:"linux"`
	Mac     string `json:"mac"`
}

// For returns the entry for tag, or "" when the tag has none.
func (l LatestVersions) For(tag platform.Tag) string {
	switch tag {
	case platform.Windows:
		return l.Windows
	case platform.Linux:
		return l.Linux
	case platform.Mac:
		return l.Mac
	}
	return ""
}

type availableVersions struct {
	Versions []string `json:"versions"`
}

// Resolver queries the metadata service for one platform.
type Resolver struct {
	client  *http.Client
	baseURL string
	tag     platform.Tag
}

// NewResolver creates a Resolver. A nil client uses http.DefaultClient; an
// empty baseURL uses DefaultMetadataURL.
func NewResolver(client *http.Client, baseURL string, tag platform.Tag) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultMetadataURL
	}
	return &Resolver{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		tag:     tag,
	}
}

// Resolve returns the concrete version for requested. Failures match
// errors.ErrVersionResolution and are never retried.
func (r *Resolver) Resolve(ctx context.Context, requested string) (string, error) {
	v := strings.TrimSpace(requested)
	if IsConcrete(v) {
		return v, nil
	}
	if v != "" && !strings.EqualFold(v, Latest) {
		return "", errors.Mark(Validate(v), errors.ErrVersionResolution)
	}

	url := r.baseURL + "/sdk/latest.json"
	var latest LatestVersions
	if err := r.getJSON(ctx, url, &latest); err != nil {
		return "", err
	}

	resolved := latest.For(r.tag)
	if resolved == "" {
		return "", errors.WithDetailf(errors.ErrVersionResolution, "no latest version for platform %q at %s", string(r.tag), url)
	}
	logging.FromContext(ctx).Info("resolved latest version", "version", resolved, "platform", string(r.tag))
	return resolved, nil
}

// Available lists the versions published for the resolver's platform.
func (r *Resolver) Available(ctx context.Context) ([]string, error) {
	url := r.baseURL + "/sdk/versions/" + string(r.tag) + ".json"
	var body availableVersions
	if err := r.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	return body.Versions, nil
}

func (r *Resolver) getJSON(ctx context.Context, url string, v any) error {
	logging.FromContext(ctx).Debug("fetching version metadata", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "creating request"), errors.ErrVersionResolution)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "fetching %s", url), errors.ErrVersionResolution)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithDetailf(errors.ErrVersionResolution, "GET %s returned %s", url, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return errors.Mark(errors.Wrapf(err, "decoding %s", url), errors.ErrVersionResolution)
	}
	return nil
}
