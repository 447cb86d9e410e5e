package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/jmcampanini/git-pulls/internal/github"
)

// FileName is the cache file name inside the git directory.
const FileName = "pulls_cache.json"

// FormatVersion is the newest on-disk layout this package writes.
const FormatVersion = 1

var (
	// ErrNotFound is returned by Load when no snapshot has been written yet.
	ErrNotFound = errors.New("pull request cache not found")

	// ErrCorruptCache is returned by Load when the snapshot cannot be parsed.
	ErrCorruptCache = errors.New("pull request cache is corrupt")
)

// fileFormat is the persisted layout. Pulls is the legacy single-list field.
type fileFormat struct {
	Version int                  `json:"version"`
	Open    []github.PullRecord  `json:"open"`
	Closed  []github.PullRecord  `json:"closed"`
	Pulls   *[]github.PullRecord `json:"pulls,omitempty"`
}

// Store reads and writes the snapshot file.
type Store struct {
	log  *clog.Logger
	path string
}

func NewStore(path string) *Store {
	return &Store{
		log:  clog.Default().WithPrefix("cache"),
		path: path,
	}
}

// PathForGitDir returns the cache location for a repository's git directory.
func PathForGitDir(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. It never returns an empty cache in place of a
// corrupt one.
func (s *Store) Load() (*Cache, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache %s: %w", s.path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s: not a JSON object", ErrCorruptCache, s.path)
	}

	var f fileFormat
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCache, s.path, err)
	}

	if f.Version > FormatVersion {
		s.log.Warn("Cache written by a newer version, reading what is understood", "path", s.path, "version", f.Version)
	}

	c := New(f.Open, f.Closed)
	if f.Pulls != nil && len(c.Open) == 0 && len(c.Closed) == 0 {
		s.log.Debug("Loaded legacy cache layout", "path", s.path)
		c.Open = *f.Pulls
	}

	s.log.Debug("Loaded cache", "path", s.path, "open", len(c.Open), "closed", len(c.Closed))
	return c, nil
}

// Save replaces the snapshot atomically. On failure the previous file is untouched.
func (s *Store) Save(c *Cache) error {
	f := fileFormat{
		Version: FormatVersion,
		Open:    nonNil(c.Open),
		Closed:  nonNil(c.Closed),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpPath)
	}()

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set cache permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace cache %s: %w", s.path, err)
	}

	s.log.Debug("Saved cache", "path", s.path, "open", len(f.Open), "closed", len(f.Closed))
	return nil
}

// ModTime reports when the snapshot was last written.
func (s *Store) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat cache %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}

func nonNil(records []github.PullRecord) []github.PullRecord {
	if records == nil {
		return []github.PullRecord{}
	}
	return records
}
