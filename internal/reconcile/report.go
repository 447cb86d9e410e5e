package reconcile

import (
	"errors"
	"fmt"

	"github.com/jmcampanini/git-pulls/internal/github"
)

// ErrForkFetchFailed marks a failed per-fork fetch. It never aborts a batch.
var ErrForkFetchFailed = errors.New("fork fetch failed")

// ForkFetchError records why fetching a fork failed.
type ForkFetchError struct {
	Fork      github.ForkRepo
	RemoteURL string
	Err       error
}

func (e *ForkFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s from %s: %v", e.Fork.FullName(), e.RemoteURL, e.Err)
}

func (e *ForkFetchError) Unwrap() []error {
	return []error{ErrForkFetchFailed, e.Err}
}

// FetchResult is the outcome for one fork. Err is nil on success.
type FetchResult struct {
	Fork      github.ForkRepo
	RemoteURL string
	Err       *ForkFetchError
}

// Report summarizes a reconciliation pass. Results follow the order of Missing.
type Report struct {
	Missing []github.ForkRepo
	Results []FetchResult
}

// Fetched returns the forks that were fetched successfully.
func (r Report) Fetched() []github.ForkRepo {
	var out []github.ForkRepo
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Fork)
		}
	}
	return out
}

// Failures returns the per-fork errors in input order.
func (r Report) Failures() []*ForkFetchError {
	var out []*ForkFetchError
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res.Err)
		}
	}
	return out
}

// Err joins all failures, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, f := range r.Failures() {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}
