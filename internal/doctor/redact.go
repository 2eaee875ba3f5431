package doctor

import (
	"net/url"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
)

// MaskURL hides credentials in a service URL before it is reported: the
// userinfo password and query values whose names look like secrets (signed
// mirror URLs carry tokens there). Unparseable input is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	changed := false
	if u.User != nil {
		if password, ok := u.User.Password(); ok && password != "" {
			u.User = url.UserPassword(u.User.Username(), logging.MaskValue(password))
			changed = true
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key, values := range q {
			if !logging.ShouldMask(key) && key != "sig" && key != "signature" {
				continue
			}
			for i, v := range values {
				values[i] = logging.MaskValue(v)
			}
			changed = true
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}

	if !changed {
		return rawURL
	}
	return u.String()
}
