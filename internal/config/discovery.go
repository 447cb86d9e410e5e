package config

import (
	"os"
	"path/filepath"
)

const (
	configDirName  = "git-pulls"
	configFileName = "git-pulls.toml"
)

// ConfigPaths lists candidate config files from lowest to highest priority:
// the user config dir, each directory from home down to the repository's
// parent, the main worktree, the current worktree and finally cwd.
// Decoding them in order lets closer files override broader ones.
// Empty roots are skipped and duplicates are dropped.
func ConfigPaths(cwd, worktreeRoot, gitRoot, homeDir string) []string {
	var dirs []string
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, configDirName))
	}
	if gitRoot != "" && homeDir != "" {
		dirs = append(dirs, ancestorDirs(filepath.Dir(gitRoot), homeDir)...)
	}
	dirs = append(dirs, gitRoot, worktreeRoot, cwd)

	paths := make([]string, 0, len(dirs))
	seen := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, configFileName)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

// ancestorDirs returns dir and its parents up to and including stop, ordered
// from stop downward. Walking stops at the filesystem root or once the path
// gets shorter than stop, so a dir outside stop yields nothing useful beyond
// its own ancestors.
func ancestorDirs(dir, stop string) []string {
	var up []string
	for dir != "" && len(dir) >= len(stop) {
		up = append(up, dir)
		if dir == stop {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	down := make([]string, len(up))
	for i, d := range up {
		down[len(up)-1-i] = d
	}
	return down
}
