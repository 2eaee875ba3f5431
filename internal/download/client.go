package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
)

// MaxRedirects is the number of redirects followed per request.
const MaxRedirects = 3

// NotFoundError reports an artifact the server answered with an error status
// for.
type NotFoundError struct {
	URL        string
	Version    string
	StatusCode int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact for version %s not found at %s (HTTP %d)", e.Version, e.URL, e.StatusCode)
}

// Is lets errors.Is match ErrArtifactNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == errors.ErrArtifactNotFound
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns a client that follows at most MaxRedirects redirects
// and identifies itself as setup-vulkan-sdk/<appVersion>.
func NewHTTPClient(appVersion string) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: "setup-vulkan-sdk/" + appVersion,
		},
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return errors.Newf("stopped after %d redirects", MaxRedirects)
			}
			return nil
		},
	}
}

// Client probes and fetches artifacts.
type Client struct {
	http *http.Client
	// progressInterval is the minimum time between progress log lines.
	progressInterval time.Duration
}

// NewClient wraps hc. A nil hc uses NewHTTPClient("dev").
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = NewHTTPClient("dev")
	}
	return &Client{http: hc, progressInterval: 5 * time.Second}
}

// Probe issues a HEAD request for url. A status of 400 or above yields a
// *NotFoundError. The returned size is the Content-Length, or -1.
func (c *Client) Probe(ctx context.Context, url, version string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return -1, errors.Mark(errors.Wrap(err, "creating request"), errors.ErrDownload)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return -1, errors.Mark(errors.Wrapf(err, "probing %s", url), errors.ErrDownload)
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return -1, &NotFoundError{URL: url, Version: version, StatusCode: resp.StatusCode}
	}
	return resp.ContentLength, nil
}

// Fetch downloads d into dir and returns the local path. The file is named
// after d.Filename. Partial files are removed on failure.
func (c *Client) Fetch(ctx context.Context, d Descriptor, dir string) (path string, err error) {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating request"), errors.ErrDownload)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "fetching %s", d.URL), errors.ErrDownload)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.WithDetailf(errors.ErrDownload, "GET %s returned %s", d.URL, resp.Status)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating download directory"), errors.ErrDownload)
	}
	path = filepath.Join(dir, d.Filename)
	out, err := os.Create(path)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating download file"), errors.ErrDownload)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	total := resp.ContentLength
	if total < 0 {
		total = d.Size
	}
	pw := &progressWriter{
		ctx:      ctx,
		name:     d.Filename,
		total:    total,
		interval: c.progressInterval,
		last:     time.Now(),
	}

	logger.Info("downloading", "file", d.Filename, "url", d.URL, "size", humanSize(total))
	n, err := io.Copy(out, io.TeeReader(resp.Body, pw))
	if err != nil {
		out.Close()
		return "", errors.Mark(errors.Wrapf(err, "writing %s", d.Filename), errors.ErrDownload)
	}
	if err := out.Close(); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "closing %s", d.Filename), errors.ErrDownload)
	}
	logger.Info("downloaded", "file", d.Filename, "size", humanize.Bytes(uint64(n)))
	return path, nil
}

func humanSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}

// progressWriter logs transfer progress at most once per interval.
type progressWriter struct {
	ctx      context.Context
	name     string
	total    int64
	written  int64
	interval time.Duration
	last     time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.last) < p.interval {
		return len(b), nil
	}
	p.last = time.Now()

	attrs := []any{"file", p.name, "received", humanize.Bytes(uint64(p.written))}
	if p.total > 0 {
		attrs = append(attrs, "total", humanize.Bytes(uint64(p.total)),
			"percent", fmt.Sprintf("%.0f%%", float64(p.written)*100/float64(p.total)))
	}
	logging.FromContext(p.ctx).Info("download progress", attrs...)
	return len(b), nil
}
