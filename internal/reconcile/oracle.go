package reconcile

import (
	"context"

	clog "github.com/charmbracelet/log"
)

// Oracle answers whether a commit is present in the local object database.
type Oracle interface {
	IsReachable(ctx context.Context, sha string) bool
}

// CommitChecker is the slice of the git collaborator the oracle needs.
type CommitChecker interface {
	CommitExists(ctx context.Context, sha string) (bool, error)
}

// GitOracle checks reachability with the git collaborator. Errors count as
// unreachable.
type GitOracle struct {
	git CommitChecker
	log *clog.Logger
}

func NewGitOracle(git CommitChecker) *GitOracle {
	return &GitOracle{
		git: git,
		log: clog.Default().WithPrefix("reconcile"),
	}
}

func (o *GitOracle) IsReachable(ctx context.Context, sha string) bool {
	exists, err := o.git.CommitExists(ctx, sha)
	if err != nil {
		o.log.Debug("Reachability check failed", "sha", sha, "error", err)
		return false
	}
	return exists
}
