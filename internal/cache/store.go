package cache

import (
	"context"
	"time"
)

// Store saves and restores directory trees under a key.
type Store interface {
	// Restore restores the entry for primaryKey, or the newest entry matching
	// one of restoreKeys, into paths. It returns the matched key, or "" on a
	// miss.
	Restore(ctx context.Context, paths []string, primaryKey string, restoreKeys []string) (string, error)

	// Save stores paths under key and returns the entry id. Saving an
	// existing key returns the existing id without writing.
	Save(ctx context.Context, paths []string, key string) (int64, error)
}

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// Manifest describes one stored entry.
type Manifest struct {
	Version int       `yaml:"version"`
	ID      int64     `yaml:"id"`
	Key     string    `yaml:"key"`
	Paths   []string  `yaml:"paths"`
	Created time.Time `yaml:"created"`
	// Size is the compressed archive size in bytes.
	Size int64 `yaml:"size"`
}
