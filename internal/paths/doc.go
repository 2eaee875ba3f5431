// Package paths resolves the filesystem locations setup-vulkan-sdk reads
// and writes: the user's home, XDG config and cache homes, the runner temp
// directory, and user-supplied destinations with "~" expansion.
//
// Locations honor the CI runner first. RUNNER_TEMP wins over os.TempDir so
// downloads land on the runner's scratch volume and are discarded with the
// job.
package paths
