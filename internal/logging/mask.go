package logging

import "strings"

var sensitiveKeys = []string{"token", "secret", "password", "authorization"}

// ShouldMask reports whether an attribute key names a credential.
func ShouldMask(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// MaskValue keeps the last four characters of v.
func MaskValue(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
