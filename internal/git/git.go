package git

import "context"

// LocalBranch is a local branch and the commit it points at.
type LocalBranch struct {
	Name string // Short branch name (e.g., "main", not "refs/heads/main")
	SHA  string
}

// MergeOptions controls how a pull request head is merged into the current branch.
type MergeOptions struct {
	Log      bool   // Pass --log to include one-line descriptions of merged commits
	Message  string // Merge commit message
	NoCommit bool   // Stop before creating the merge commit
	SHA      string // Commit to merge
}

type Git interface {

	// CommitExists reports whether sha names a commit in the local object database,
	// regardless of which refs point at it. Returns (false, nil) when git says the
	// object is missing or the sha is malformed.
	CommitExists(ctx context.Context, sha string) (bool, error)

	// Fetch fetches refspec from remoteURL without touching configured remotes.
	// Will mutate the current git state.
	Fetch(ctx context.Context, remoteURL, refspec string) error

	// ListConfig returns the effective git config as a key/value map.
	// Section and variable names are lower-case, subsections keep their case; later values win.
	ListConfig() (map[string]string, error)

	// GitDir returns the absolute path of the repository's git directory.
	GitDir() (string, error)

	// GetCurrentBranch returns the current branch name.
	// Returns "HEAD" if in detached HEAD state.
	GetCurrentBranch() (string, error)

	// GetMainWorktreePath returns the absolute path to the main (primary) worktree.
	GetMainWorktreePath() (string, error)

	// GetWorktreeRoot returns the absolute path to the root of the git tree.
	// If not in a git repository, returns ("", nil).
	GetWorktreeRoot() (string, error)

	// IsMerged reports whether every commit reachable from sha is also reachable from HEAD.
	IsMerged(sha string) (bool, error)

	// DiffStat returns `git diff --stat HEAD...sha`.
	DiffStat(sha string) (string, error)

	// Diff returns the full `git diff HEAD...sha`.
	Diff(sha string) (string, error)

	// Merge runs `git merge --no-ff` for the given options and returns git's output.
	// Will mutate the current git state.
	Merge(opts MergeOptions) (string, error)

	// BranchExists checks if a local branch with the given name exists.
	BranchExists(branchName string) (bool, error)

	// CreateBranch creates a local branch at sha. With force, an existing branch is reset.
	// Will mutate the current git state.
	CreateBranch(branchName, sha string, force bool) error

	// ListLocalBranches returns the local branches with their head commits.
	ListLocalBranches() ([]LocalBranch, error)
}
