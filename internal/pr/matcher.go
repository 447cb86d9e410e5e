package pr

import (
	"github.com/jmcampanini/git-pulls/internal/git"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/jmcampanini/git-pulls/internal/naming"
)

// BranchMatch represents a pull request with its local branch status.
type BranchMatch struct {
	BranchName string
	HasBranch  bool
	PR         github.PullRecord
}

// Matcher matches pull requests to existing local branches.
type Matcher struct {
	namer *naming.CheckoutNamer
}

// NewMatcher creates a new Matcher with the given CheckoutNamer.
// A nil namer matches by head commit only.
func NewMatcher(namer *naming.CheckoutNamer) *Matcher {
	return &Matcher{
		namer: namer,
	}
}

// Match returns a BranchMatch for each pull request, in order.
func (m *Matcher) Match(prs []github.PullRecord, branches []git.LocalBranch) []BranchMatch {
	result := make([]BranchMatch, len(prs))
	for i, pr := range prs {
		match := BranchMatch{PR: pr}
		if b := m.FindBranchForPR(pr, branches); b != nil {
			match.HasBranch = true
			match.BranchName = b.Name
		}
		result[i] = match
	}
	return result
}

// FindBranchForPR searches local branches for one that tracks the pull request.
// It uses a dual-match strategy:
// 1. Template-generated branch name (branches created by checkout)
// 2. A branch whose head is the pull request's head commit
// Returns nil if no match is found.
func (m *Matcher) FindBranchForPR(pr github.PullRecord, branches []git.LocalBranch) *git.LocalBranch {
	var expected string
	if m.namer != nil {
		name, err := m.namer.BranchName(pr)
		if err == nil {
			expected = name
		}
		// On error continue with commit match only
	}

	for i := range branches {
		if expected != "" && branches[i].Name == expected {
			return &branches[i]
		}
	}
	for i := range branches {
		if pr.Head.SHA != "" && branches[i].SHA == pr.Head.SHA {
			return &branches[i]
		}
	}
	return nil
}
