package git

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

const testTimeout = 30 * time.Second

// newTestGitCli creates a GitCli instance suitable for unit testing.
// The logger discards output and workingDir is set to a placeholder.
func newTestGitCli() *GitCli {
	return &GitCli{
		dryRun:      false,
		log:         clog.New(io.Discard),
		longTimeout: testTimeout,
		timeout:     testTimeout,
		workingDir:  "/nonexistent",
	}
}

// testRepo provides a temporary git repository for integration tests.
type testRepo struct {
	Git     *GitCli
	rootDir string
	t       *testing.T
}

// newTestRepo creates an initialized git repository in a temp directory.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	return &testRepo{
		Git:     New(false, dir, testTimeout, testTimeout).(*GitCli),
		rootDir: dir,
		t:       t,
	}
}

// commit creates a new commit and returns the full SHA.
func (r *testRepo) commit(message string) string {
	r.t.Helper()
	filename := filepath.Join(r.rootDir, "file.txt")
	appendToFile(r.t, filename, message+"\n")
	runGit(r.t, r.rootDir, "add", "-A")
	runGit(r.t, r.rootDir, "commit", "-m", message)
	return r.sha("HEAD")
}

// createBranch creates a new branch at current HEAD.
func (r *testRepo) createBranch(name string) {
	r.t.Helper()
	runGit(r.t, r.rootDir, "branch", name)
}

// checkout switches to a branch or ref.
func (r *testRepo) checkout(ref string) {
	r.t.Helper()
	runGit(r.t, r.rootDir, "checkout", ref)
}

// sha returns the full SHA for a ref.
func (r *testRepo) sha(ref string) string {
	r.t.Helper()
	return strings.TrimSpace(runGit(r.t, r.rootDir, "rev-parse", ref))
}

// setConfig sets a git config value.
func (r *testRepo) setConfig(key, value string) {
	r.t.Helper()
	runGit(r.t, r.rootDir, "config", key, value)
}

// path returns the root directory of the test repo (with symlinks resolved).
func (r *testRepo) path() string {
	resolved, err := filepath.EvalSymlinks(r.rootDir)
	if err != nil {
		return r.rootDir
	}
	return resolved
}

// newForkRepo creates a separate repository standing in for a contributor fork.
// It shares no history with the main test repo.
func newForkRepo(t *testing.T, branch string) (dir string, sha string) {
	t.Helper()
	fork := newTestRepo(t)
	fork.commit("fork commit")
	if branch != "main" {
		fork.createBranch(branch)
	}
	return fork.rootDir, fork.sha(branch)
}

// runGit executes a git command and returns stdout.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	require.NoError(t, err, "git %v failed: %s", args, stderr.String())
	return stdout.String()
}

// appendToFile appends content to a file, creating it if necessary.
func appendToFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

// branchNames extracts branch names from a slice of LocalBranch.
func branchNames(branches []LocalBranch) []string {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return names
}

// resolvePath resolves symlinks in a path (useful for macOS /var -> /private/var).
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
