package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

var shaPattern = regexp.MustCompile(`^[0-9a-fA-F]{4,64}$`)

// GitCli provides high-level git operations by executing real git commands via the git CLI.
type GitCli struct {
	dryRun      bool
	log         *clog.Logger
	longTimeout time.Duration
	timeout     time.Duration
	workingDir  string
}

var _ Git = &GitCli{}

// New creates a new GitCli instance that executes git commands in the specified working directory.
// longTimeout bounds network and merge operations; timeout bounds everything else.
func New(dryRun bool, workingDir string, timeout, longTimeout time.Duration) Git {
	return &GitCli{
		dryRun:      dryRun,
		log:         clog.Default().WithPrefix("git"),
		longTimeout: longTimeout,
		timeout:     timeout,
		workingDir:  workingDir,
	}
}

// run executes git and returns trimmed stdout. It does not log failures.
func (g *GitCli) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workingDir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s timed out after %s", strings.Join(args, " "), timeout)
		}
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (g *GitCli) executeGitCommandContext(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	g.log.Debug("Executing git command", "cmd", "git", "args", args, "workingDir", g.workingDir)

	output, err := g.run(ctx, timeout, args...)
	if err != nil {
		g.log.Warn("Git command failed", "args", args, "error", err)
		return "", err
	}

	g.log.Debug("Git command succeeded", "args", args, "outputLen", len(output))
	return output, nil
}

func (g *GitCli) executeGitCommand(args ...string) (string, error) {
	return g.executeGitCommandContext(context.Background(), g.timeout, args...)
}

// executeMutatingCommand runs a git command that modifies state, unless in dry-run mode.
func (g *GitCli) executeMutatingCommand(ctx context.Context, timeout time.Duration, errContext string, args ...string) (string, error) {
	if g.dryRun {
		g.log.Info("Would execute git command", "cmd", "git", "args", args)
		return fmt.Sprintf("Would execute: git %s", strings.Join(args, " ")), nil
	}
	output, err := g.executeGitCommandContext(ctx, timeout, args...)
	if err != nil {
		return output, fmt.Errorf("%s: %w", errContext, err)
	}
	return output, nil
}

func (g *GitCli) CommitExists(ctx context.Context, sha string) (bool, error) {
	if !shaPattern.MatchString(sha) {
		return false, nil
	}

	_, err := g.run(ctx, g.timeout, "cat-file", "-e", sha+"^{commit}")
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		g.log.Debug("Commit not found", "sha", sha)
		return false, nil
	}
	return false, err
}

func (g *GitCli) Fetch(ctx context.Context, remoteURL, refspec string) error {
	g.log.Debug("Fetching", "url", remoteURL, "refspec", refspec)
	_, err := g.executeMutatingCommand(ctx, g.longTimeout,
		fmt.Sprintf("failed to fetch %s", remoteURL),
		"fetch", "--no-tags", "--quiet", remoteURL, refspec)
	return err
}

func (g *GitCli) ListConfig() (map[string]string, error) {
	output, err := g.executeGitCommand("config", "--list", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list git config: %w", err)
	}
	return parseConfigList(output), nil
}

// parseConfigList parses `git config --list -z` output: entries are NUL-terminated
// and the key is separated from the value by the first newline.
func parseConfigList(output string) map[string]string {
	values := make(map[string]string)
	for _, entry := range strings.Split(output, "\x00") {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "\n")
		values[normalizeConfigKey(strings.TrimSpace(key))] = value
	}
	return values
}

// normalizeConfigKey lower-cases the section and variable name of a config
// key. The subsection between them is case-sensitive and kept as is, so
// "URL.git@Host:Org/.insteadOf" becomes "url.git@Host:Org/.insteadof".
func normalizeConfigKey(key string) string {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first == -1 || first == last {
		return strings.ToLower(key)
	}
	return strings.ToLower(key[:first]) + key[first:last] + strings.ToLower(key[last:])
}

func (g *GitCli) GitDir() (string, error) {
	output, err := g.executeGitCommand("rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to get git dir: %w", err)
	}
	return filepath.Clean(output), nil
}

func (g *GitCli) GetMainWorktreePath() (string, error) {
	commonDir, err := g.executeGitCommand("rev-parse", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("failed to get git common dir: %w", err)
	}

	absCommonDir := commonDir
	if !filepath.IsAbs(commonDir) {
		absCommonDir = filepath.Join(g.workingDir, commonDir)
	}

	absCommonDir, err = filepath.Abs(absCommonDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	mainWorktree := filepath.Dir(filepath.Clean(absCommonDir))

	g.log.Debug("Resolved main worktree path", "commonDir", commonDir, "mainWorktree", mainWorktree)
	return mainWorktree, nil
}

func (g *GitCli) GetWorktreeRoot() (string, error) {
	output, err := g.run(context.Background(), g.timeout, "rev-parse", "--show-toplevel")
	if err != nil {
		if strings.Contains(err.Error(), "not a git repo") {
			// Not in a git repo - this is a valid state, not an error
			return "", nil
		}
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return output, nil
}

func (g *GitCli) GetCurrentBranch() (string, error) {
	output, err := g.executeGitCommand("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

func (g *GitCli) IsMerged(sha string) (bool, error) {
	if !shaPattern.MatchString(sha) {
		return false, fmt.Errorf("invalid commit sha: %q", sha)
	}
	output, err := g.executeGitCommand("rev-list", "--max-count=1", sha, "^HEAD")
	if err != nil {
		return false, fmt.Errorf("failed to compare %s with HEAD: %w", sha, err)
	}
	return output == "", nil
}

func (g *GitCli) DiffStat(sha string) (string, error) {
	if !shaPattern.MatchString(sha) {
		return "", fmt.Errorf("invalid commit sha: %q", sha)
	}
	output, err := g.executeGitCommand("diff", "--stat", "HEAD..."+sha)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", sha, err)
	}
	return output, nil
}

func (g *GitCli) Diff(sha string) (string, error) {
	if !shaPattern.MatchString(sha) {
		return "", fmt.Errorf("invalid commit sha: %q", sha)
	}
	output, err := g.executeGitCommandContext(context.Background(), g.longTimeout, "diff", "HEAD..."+sha)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", sha, err)
	}
	return output, nil
}

func (g *GitCli) Merge(opts MergeOptions) (string, error) {
	if !shaPattern.MatchString(opts.SHA) {
		return "", fmt.Errorf("invalid commit sha: %q", opts.SHA)
	}
	args := []string{"merge", "--no-ff"}
	if opts.Log {
		args = append(args, "--log")
	}
	if opts.NoCommit {
		args = append(args, "--no-commit")
	}
	args = append(args, "-m", opts.Message, opts.SHA)

	return g.executeMutatingCommand(context.Background(), g.longTimeout, "failed to merge "+opts.SHA, args...)
}

func (g *GitCli) BranchExists(branchName string) (bool, error) {
	_, err := g.run(context.Background(), g.timeout, "show-ref", "--verify", "--quiet", "refs/heads/"+branchName)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check branch %s: %w", branchName, err)
}

func (g *GitCli) CreateBranch(branchName, sha string, force bool) error {
	if !shaPattern.MatchString(sha) {
		return fmt.Errorf("invalid commit sha: %q", sha)
	}
	args := []string{"branch"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "--", branchName, sha)

	_, err := g.executeMutatingCommand(context.Background(), g.timeout, "failed to create branch "+branchName, args...)
	return err
}

func (g *GitCli) ListLocalBranches() ([]LocalBranch, error) {
	output, err := g.executeGitCommand("for-each-ref", "--format=%(objectname) %(refname:short)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return parseBranchList(output), nil
}

// parseBranchList reads "<sha> <name>" lines. Malformed lines are skipped.
func parseBranchList(output string) []LocalBranch {
	branches := []LocalBranch{}
	for _, line := range strings.Split(output, "\n") {
		sha, name, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok || sha == "" || name == "" {
			continue
		}
		branches = append(branches, LocalBranch{Name: name, SHA: sha})
	}
	return branches
}
