package platform

import (
	"runtime"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		goos string
		want Tag
	}{
		{goos: "windows", want: Windows},
		{goos: "linux", want: Linux},
		{goos: "darwin", want: Mac},
		{goos: "freebsd", want: Tag("freebsd")},
		{goos: "", want: Tag("")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			if got := Resolve(tt.goos); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.goos, got, tt.want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	want := Resolve(runtime.GOOS)
	if got := Current(); got != want {
		t.Errorf("Current() = %q, want %q", got, want)
	}
	if Current() != Current() {
		t.Error("Current() is not stable")
	}
}

func TestTag_Known(t *testing.T) {
	for _, tag := range Tags() {
		if !tag.Known() {
			t.Errorf("%q.Known() = false", tag)
		}
	}
	if Tag("plan9").Known() {
		t.Error(`"plan9".Known() = true`)
	}
}

func TestArch(t *testing.T) {
	tests := map[string]string{
		"amd64": "x64",
		"386":   "x86",
		"arm64": "arm64",
	}
	for goarch, want := range tests {
		if got := Arch(goarch); got != want {
			t.Errorf("Arch(%q) = %q, want %q", goarch, got, want)
		}
	}
}
