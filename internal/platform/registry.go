package platform

import (
	"sync"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrPlatformAlreadyRegistered is returned when attempting to register
	// an adapter for a tag that is already in use.
	ErrPlatformAlreadyRegistered = errors.New("platform already registered")

	// ErrInvalidPlatformTag is returned when attempting to register an
	// adapter whose tag is not a known platform.
	ErrInvalidPlatformTag = errors.New("invalid platform tag")
)

// Registry manages platform adapters keyed by tag.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	platforms map[Tag]Platform
}

// NewRegistry creates a new empty platform registry.
func NewRegistry() *Registry {
	return &Registry{
		platforms: make(map[Tag]Platform),
	}
}

// Register adds an adapter to the registry.
// Returns an error if:
//   - The adapter's tag is not a known tag
//   - An adapter with the same tag is already registered
func (r *Registry) Register(p Platform) error {
	tag := p.Tag()
	if !tag.Known() {
		return ErrInvalidPlatformTag
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.platforms[tag]; exists {
		return ErrPlatformAlreadyRegistered
	}

	r.platforms[tag] = p
	return nil
}

// Get returns the adapter for tag. Unregistered tags yield an error matching
// errors.ErrUnsupportedPlatform.
func (r *Registry) Get(tag Tag) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.platforms[tag]
	if !ok {
		return nil, errors.WithDetailf(errors.ErrUnsupportedPlatform, "platform %q", string(tag))
	}
	return p, nil
}

// All returns registered tags in the order defined by Tags().
func (r *Registry) All() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []Tag
	for _, tag := range Tags() {
		if _, ok := r.platforms[tag]; ok {
			results = append(results, tag)
		}
	}
	return results
}
