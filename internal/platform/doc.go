// Package platform maps the host operating system onto an SDK platform tag
// and defines the adapter contract each supported platform implements.
//
// # Tags
//
// [Resolve] is a pure mapping from a GOOS value to a [Tag]; [Current] caches
// the result for the running process. Unknown operating systems yield their
// raw identifier, which has no registered adapter.
//
// # Adapters
//
// Per-platform behavior lives behind [Platform]. Implementations are in the
// windows, linux and mac subpackages and are looked up through a [Registry]:
//
//	reg := platform.NewRegistry()
//	_ = reg.Register(linux.New())
//	p, err := reg.Get(platform.Current())
//
// # Thread Safety
//
// Registry is safe for concurrent use. Adapters hold no mutable state.
package platform
