package cache

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/archive"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/paths"
	"github.com/thoreinstein/setup-vulkan-sdk/pkg/fileutil"
)

const (
	archiveExt  = ".tar.zst"
	manifestExt = ".yaml"
)

// LocalStore keeps cache entries in a directory.
type LocalStore struct {
	dir string
	now func() time.Time
}

var _ Store = (*LocalStore)(nil)

// Option configures a LocalStore.
type Option func(*LocalStore)

// WithDir sets the cache directory.
func WithDir(dir string) Option {
	return func(s *LocalStore) {
		if dir != "" {
			s.dir = dir
		}
	}
}

// WithClock overrides the time source for manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LocalStore) { s.now = now }
}

// NewLocalStore creates a LocalStore. The default directory is
// paths.CacheDir().
func NewLocalStore(opts ...Option) *LocalStore {
	s := &LocalStore{
		dir: paths.CacheDir(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the cache directory.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) archivePath(key string) string {
	return filepath.Join(s.dir, key+archiveExt)
}

func (s *LocalStore) manifestPath(key string) string {
	return filepath.Join(s.dir, key+manifestExt)
}

// Save implements Store.
func (s *LocalStore) Save(ctx context.Context, srcPaths []string, key string) (int64, error) {
	logger := logging.FromContext(ctx)

	if err := validateKey(key); err != nil {
		return -1, err
	}
	if len(srcPaths) == 0 {
		return -1, errors.New("at least one path is required")
	}

	if existing, err := s.Get(key); err == nil {
		logger.Info("cache entry already exists", "key", key, "id", existing.ID)
		return existing.ID, nil
	}

	for _, p := range srcPaths {
		if _, err := os.Stat(p); err != nil {
			return -1, errors.Wrapf(err, "stat %s", p)
		}
	}

	if err := paths.EnsureDir(s.dir, paths.DefaultDirPerm); err != nil {
		return -1, err
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*.tmp")
	if err != nil {
		return -1, errors.Wrap(err, "creating temp archive")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := archive.PackTarZst(ctx, tmp, srcPaths...); err != nil {
		tmp.Close()
		return -1, errors.Wrap(err, "packing cache entry")
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return -1, errors.Wrap(err, "stating temp archive")
	}
	if err := tmp.Close(); err != nil {
		return -1, errors.Wrap(err, "closing temp archive")
	}
	if err := os.Rename(tmpName, s.archivePath(key)); err != nil {
		return -1, errors.Wrap(err, "storing cache archive")
	}

	id, err := s.nextID()
	if err != nil {
		return -1, err
	}
	m := Manifest{
		Version: ManifestVersion,
		ID:      id,
		Key:     key,
		Paths:   slices.Clone(srcPaths),
		Created: s.now().UTC(),
		Size:    info.Size(),
	}
	// manifest last, so a crash never leaves a manifest without its archive
	if err := fileutil.AtomicWriteYAML(s.manifestPath(key), m); err != nil {
		return -1, errors.Wrap(err, "writing cache manifest")
	}

	logger.Info("saved cache entry", "key", key, "id", id, "size", humanize.Bytes(uint64(m.Size)))
	return id, nil
}

// Restore implements Store.
func (s *LocalStore) Restore(ctx context.Context, dstPaths []string, primaryKey string, restoreKeys []string) (string, error) {
	logger := logging.FromContext(ctx)

	if len(dstPaths) == 0 {
		return "", errors.New("at least one path is required")
	}

	m, err := s.lookup(primaryKey, restoreKeys)
	if err != nil || m == nil {
		return "", err
	}
	if len(m.Paths) != len(dstPaths) {
		return "", errors.Newf("cache entry %s holds %d paths, %d requested", m.Key, len(m.Paths), len(dstPaths))
	}

	logger.Info("restoring cache entry", "key", m.Key, "size", humanize.Bytes(uint64(m.Size)))
	if err := s.extract(ctx, m.Key, dstPaths); err != nil {
		return "", err
	}
	return m.Key, nil
}

// lookup returns the manifest for primaryKey, else the newest manifest
// matching a restore key, else nil.
func (s *LocalStore) lookup(primaryKey string, restoreKeys []string) (*Manifest, error) {
	if m, err := s.Get(primaryKey); err == nil {
		return m, nil
	}

	entries, err := s.List()
	if err != nil {
		return nil, err
	}

	var best *Manifest
	for i := range entries {
		m := &entries[i]
		for _, pattern := range restoreKeys {
			ok, err := Match(pattern, m.Key)
			if err != nil {
				return nil, err
			}
			if ok && newer(m, best) {
				best = m
			}
		}
	}
	return best, nil
}

func newer(m, than *Manifest) bool {
	if than == nil {
		return true
	}
	if !m.Created.Equal(than.Created) {
		return m.Created.After(than.Created)
	}
	return m.ID > than.ID
}

func (s *LocalStore) extract(ctx context.Context, key string, dstPaths []string) error {
	f, err := os.Open(s.archivePath(key))
	if err != nil {
		return errors.Wrap(err, "opening cache archive")
	}
	defer f.Close()

	staging, err := os.MkdirTemp(s.dir, ".restore-*")
	if err != nil {
		return errors.Wrap(err, "creating restore staging directory")
	}
	defer os.RemoveAll(staging)

	if err := archive.UnpackTarZst(ctx, f, staging); err != nil {
		return errors.Wrap(err, "unpacking cache archive")
	}

	for i, dst := range dstPaths {
		src := filepath.Join(staging, strconv.Itoa(i))
		if err := place(src, dst); err != nil {
			return errors.Wrapf(err, "restoring %s", dst)
		}
	}
	return nil
}

// place moves src to dst when dst does not exist, and merges otherwise.
func place(src, dst string) error {
	if _, err := os.Lstat(dst); os.IsNotExist(err) {
		if err := paths.EnsureDir(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
			return err
		}
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
	}
	return fileutil.CopyDir(src, dst)
}

// Get returns the manifest stored for key.
func (s *LocalStore) Get(key string) (*Manifest, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var m Manifest
	if err := fileutil.ReadYAML(s.manifestPath(key), &m); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.archivePath(key)); err != nil {
		return nil, errors.Wrapf(err, "cache archive for %s", key)
	}
	return &m, nil
}

// List returns all manifests, oldest first.
func (s *LocalStore) List() ([]Manifest, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading cache directory")
	}

	var out []Manifest
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, manifestExt) {
			continue
		}
		m, err := s.Get(strings.TrimSuffix(name, manifestExt))
		if err != nil {
			// unreadable or orphaned manifests are ignored
			continue
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b Manifest) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *LocalStore) nextID() (int64, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, m := range entries {
		maxID = max(maxID, m.ID)
	}
	return maxID + 1, nil
}
