package refresh

import (
	"context"
	"errors"
	"fmt"

	clog "github.com/charmbracelet/log"
	"github.com/jmcampanini/git-pulls/internal/cache"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/git"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/jmcampanini/git-pulls/internal/reconcile"
	"golang.org/x/sync/errgroup"
)

// ErrUpstreamUnavailable means the pull request listing failed; the cache was not touched.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Result is what a refresh produced.
type Result struct {
	Cache  *cache.Cache
	Report reconcile.Report
}

// Orchestrator runs the update sequence. It is the only writer of the cache file.
type Orchestrator struct {
	api        github.GitHub
	cfg        config.GitHubConfig
	log        *clog.Logger
	reconciler *reconcile.Reconciler
	repo       git.Repository
	store      *cache.Store
}

func NewOrchestrator(api github.GitHub, store *cache.Store, reconciler *reconcile.Reconciler, repo git.Repository, cfg config.GitHubConfig) *Orchestrator {
	return &Orchestrator{
		api:        api,
		cfg:        cfg,
		log:        clog.Default().WithPrefix("refresh"),
		reconciler: reconciler,
		repo:       repo,
		store:      store,
	}
}

// Refresh lists open and closed pull requests, replaces the snapshot and
// fetches any fork whose head commit is missing locally.
func (o *Orchestrator) Refresh(ctx context.Context) (Result, error) {
	var open, closed []github.PullRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		open, err = o.api.ListPullRequests(gctx, o.repo.Owner, o.repo.Name, github.PRStateOpen)
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = o.api.ListPullRequests(gctx, o.repo.Owner, o.repo.Name, github.PRStateClosed)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	c := cache.New(open, closed)
	if err := o.store.Save(c); err != nil {
		return Result{}, err
	}
	o.log.Debug("Refreshed pull requests", "repo", o.repo.String(), "open", len(open), "closed", len(closed))

	report := o.reconciler.Reconcile(ctx, c.All(), reconcile.SelectEndpoint(o.cfg))
	return Result{Cache: c, Report: report}, nil
}

// LoadOrRefresh returns the cached snapshot, refreshing first when none
// exists yet. The bool reports whether a refresh ran.
func (o *Orchestrator) LoadOrRefresh(ctx context.Context) (*cache.Cache, bool, error) {
	c, err := o.store.Load()
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		return nil, false, err
	}

	o.log.Debug("No cache yet, refreshing", "path", o.store.Path())
	result, err := o.Refresh(ctx)
	if err != nil {
		return nil, false, err
	}
	return result.Cache, true, nil
}
