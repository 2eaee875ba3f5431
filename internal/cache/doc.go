// Package cache saves and restores installed SDK trees between runs.
//
// Entries are addressed by a deterministic key
//
//	cache-<kind>-<version>-<platform>-<arch>
//
// and looked up with glob restore keys that match any version of the same
// kind, platform and architecture. Entries are immutable: saving an existing
// key is a no-op.
//
// [LocalStore] keeps entries on disk:
//
//	$XDG_CACHE_HOME/setup-vulkan-sdk/
//	├── cache-vulkan-sdk-1.3.250.1-linux-x64.tar.zst
//	└── cache-vulkan-sdk-1.3.250.1-linux-x64.yaml
//
// [Bridge] wraps any [Store] and turns every failure into a logged warning,
// since a broken cache must never fail an install.
package cache
