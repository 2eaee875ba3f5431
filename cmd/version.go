// Package cmd holds build metadata injected with
// -ldflags "-X github.com/thoreinstein/setup-vulkan-sdk/cmd.Version=...".
package cmd

var (
	// Version is the release version, also sent in the download User-Agent.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
