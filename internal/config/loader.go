package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadResult is the resolved config plus the files that contributed to it.
type LoadResult struct {
	Config      Config
	SourcePaths []string // in the order they were applied
}

// FileSystem abstracts file lookups for tests.
type FileSystem interface {
	// Exists reports whether path is an existing regular file.
	Exists(path string) bool
}

// OSFileSystem is the FileSystem backed by os.Stat.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Loader layers defaults, TOML files, git config and the environment.
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

func NewLoader(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: os.Getenv}
}

// NewDefaultLoader returns a Loader reading the real file system.
func NewDefaultLoader() *Loader {
	return NewLoader(OSFileSystem{})
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load resolves config from files only; git config is not consulted.
func (l *Loader) Load(paths []string) (LoadResult, error) {
	return l.Resolve(paths, nil)
}

// Resolve applies, in increasing priority: defaults, each existing file in
// paths, gitConfig (when non-nil) and GITHUB_TOKEN. Validation runs once on
// the final result.
func (l *Loader) Resolve(paths []string, gitConfig map[string]string) (LoadResult, error) {
	result := LoadResult{Config: DefaultConfig()}

	for _, path := range paths {
		applied, err := l.decodeFile(path, &result.Config)
		if err != nil {
			return LoadResult{}, err
		}
		if applied {
			result.SourcePaths = append(result.SourcePaths, path)
		}
	}

	if gitConfig != nil {
		result.Config = ApplyGitConfig(result.Config, gitConfig)
	}
	result.Config = ApplyEnv(result.Config, l.getenv)

	if err := result.Config.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf("invalid config: %w", err)
	}
	return result, nil
}

// decodeFile overlays path onto cfg. Missing files are skipped silently.
func (l *Loader) decodeFile(path string, cfg *Config) (bool, error) {
	if !l.fs.Exists(path) {
		return false, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn("unknown config keys", "path", path, "keys", undecoded)
	}
	return true, nil
}
