package pr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmcampanini/git-pulls/internal/git"
	"github.com/jmcampanini/git-pulls/internal/github"
)

// ErrDeletedSourceRepository means the pull request's fork no longer exists.
var ErrDeletedSourceRepository = errors.New("source repository was deleted")

// DeletedSourceError carries the guidance shown when refusing to merge.
type DeletedSourceError struct {
	Number   int
	User     string
	PatchURL string
}

func (e *DeletedSourceError) Error() string {
	return fmt.Sprintf("#%d: %s deleted the source repository", e.Number, e.User)
}

func (e *DeletedSourceError) Unwrap() error {
	return ErrDeletedSourceRepository
}

// Guidance returns instructions for applying the patch by hand.
func (e *DeletedSourceError) Guidance() string {
	return fmt.Sprintf("You can manually patch your repo by running:\n\n  curl %s | git am\n", e.PatchURL)
}

// MergePlan builds the merge options for a pull request.
// Log and noCommit are mutually exclusive.
func MergePlan(p github.PullRecord, log, noCommit bool) (git.MergeOptions, error) {
	if log && noCommit {
		return git.MergeOptions{}, errors.New("--log and --no-commit cannot be combined")
	}

	fork, ok := p.Fork()
	if !ok {
		return git.MergeOptions{}, &DeletedSourceError{Number: p.Number, User: p.User, PatchURL: p.PatchURL}
	}

	return git.MergeOptions{
		Log:      log,
		Message:  MergeMessage(p, fork, log),
		NoCommit: noCommit,
		SHA:      p.Head.SHA,
	}, nil
}

// MergeMessage renders the merge commit message.
func MergeMessage(p github.PullRecord, fork github.ForkRepo, log bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merge pull request #%d from %s", p.Number, fork.FullName())
	if body := strings.TrimSpace(p.Body); body != "" {
		b.WriteString("\n\n---\n\n")
		b.WriteString(body)
	}
	if log {
		b.WriteString("\n\n---\n\nMerge Log:\n")
	}
	return b.String()
}
