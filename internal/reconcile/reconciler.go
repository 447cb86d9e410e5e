package reconcile

import (
	"context"

	clog "github.com/charmbracelet/log"
	"github.com/jmcampanini/git-pulls/internal/github"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the slice of the git collaborator used to pull fork refs.
type Fetcher interface {
	Fetch(ctx context.Context, remoteURL, refspec string) error
}

// Reconciler makes pull request head commits locally reachable.
type Reconciler struct {
	concurrency int
	fetcher     Fetcher
	log         *clog.Logger
	oracle      Oracle
}

// NewReconciler bounds oracle queries and fetches to concurrency workers.
func NewReconciler(oracle Oracle, fetcher Fetcher, concurrency int) *Reconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reconciler{
		concurrency: concurrency,
		fetcher:     fetcher,
		log:         clog.Default().WithPrefix("reconcile"),
		oracle:      oracle,
	}
}

// ComputeMissingForks returns the distinct forks, in first-seen order, that
// own at least one unreachable head commit. Deleted forks are never queried.
func (r *Reconciler) ComputeMissingForks(ctx context.Context, records []github.PullRecord) []github.ForkRepo {
	missing := make([]bool, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, rec := range records {
		if rec.HasDeletedFork() {
			r.log.Debug("Skipping pull request with deleted fork", "number", rec.Number)
			continue
		}
		g.Go(func() error {
			missing[i] = !r.oracle.IsReachable(gctx, rec.Head.SHA)
			return nil
		})
	}
	// Workers report through missing and never return an error.
	g.Wait()

	var forks []github.ForkRepo
	seen := make(map[github.ForkRepo]bool)
	for i, rec := range records {
		if !missing[i] {
			continue
		}
		fork, _ := rec.Fork()
		if seen[fork] {
			continue
		}
		seen[fork] = true
		forks = append(forks, fork)
	}

	r.log.Debug("Computed missing forks", "records", len(records), "forks", len(forks))
	return forks
}

// FetchAll fetches every fork into its private namespace. Failures are
// recorded per fork and never stop the remaining fetches.
func (r *Reconciler) FetchAll(ctx context.Context, forks []github.ForkRepo, endpoint EndpointStrategy) Report {
	results := make([]FetchResult, len(forks))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, fork := range forks {
		remoteURL := endpoint.RemoteURL(fork)
		results[i] = FetchResult{Fork: fork, RemoteURL: remoteURL}
		g.Go(func() error {
			if err := r.fetcher.Fetch(ctx, remoteURL, ForkRefspec(fork)); err != nil {
				r.log.Warn("Fork fetch failed", "fork", fork.FullName(), "error", err)
				results[i].Err = &ForkFetchError{Fork: fork, RemoteURL: remoteURL, Err: err}
				return nil
			}
			r.log.Debug("Fetched fork", "fork", fork.FullName())
			return nil
		})
	}
	// Failures land in results; no worker returns an error.
	g.Wait()

	return Report{Missing: forks, Results: results}
}

// Reconcile computes the missing forks and fetches them.
func (r *Reconciler) Reconcile(ctx context.Context, records []github.PullRecord, endpoint EndpointStrategy) Report {
	forks := r.ComputeMissingForks(ctx, records)
	if len(forks) == 0 {
		return Report{}
	}
	return r.FetchAll(ctx, forks, endpoint)
}
