package platform

import (
	"runtime"
	"sync"
)

// Tag identifies an SDK platform in download URLs, the latest-version
// document and cache keys.
type Tag string

// Known platform tags.
const (
	Windows Tag = "windows"
	Linux   Tag = "linux"
	Mac     Tag = "mac"
)

// Tags returns the known tags in deterministic order.
func Tags() []Tag {
	return []Tag{Windows, Linux, Mac}
}

// Known reports whether t is one of the known tags.
func (t Tag) Known() bool {
	switch t {
	case Windows, Linux, Mac:
		return true
	}
	return false
}

func (t Tag) String() string { return string(t) }

// Resolve maps a GOOS value onto a Tag. Unknown values are returned as is.
func Resolve(goos string) Tag {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Mac
	case "linux":
		return Linux
	default:
		return Tag(goos)
	}
}

var (
	currentOnce sync.Once
	current     Tag
)

// Current returns the Tag of the running process. The value is computed once.
func Current() Tag {
	currentOnce.Do(func() {
		current = Resolve(runtime.GOOS)
	})
	return current
}

// Arch maps a GOARCH value onto the architecture label used in cache keys.
func Arch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// CurrentArch returns Arch(runtime.GOARCH).
func CurrentArch() string {
	return Arch(runtime.GOARCH)
}
