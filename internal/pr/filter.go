package pr

import (
	clog "github.com/charmbracelet/log"
	"github.com/jmcampanini/git-pulls/internal/github"
)

// MergeChecker reports whether a commit is already part of HEAD.
type MergeChecker interface {
	IsMerged(sha string) (bool, error)
}

// NotMerged drops pull requests whose head is already merged into HEAD.
// A head that cannot be checked, e.g. because it was never fetched, is kept.
func NotMerged(prs []github.PullRecord, checker MergeChecker) []github.PullRecord {
	log := clog.Default().WithPrefix("pr")

	var out []github.PullRecord
	for _, p := range prs {
		merged, err := checker.IsMerged(p.Head.SHA)
		if err != nil {
			log.Debug("Could not check merge status", "number", p.Number, "error", err)
		}
		if err == nil && merged {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Reversed returns a reversed copy of prs.
func Reversed(prs []github.PullRecord) []github.PullRecord {
	out := make([]github.PullRecord, len(prs))
	for i, p := range prs {
		out[len(prs)-1-i] = p
	}
	return out
}
