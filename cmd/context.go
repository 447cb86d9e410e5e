package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmcampanini/git-pulls/internal/cache"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/git"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/jmcampanini/git-pulls/internal/reconcile"
	"github.com/jmcampanini/git-pulls/internal/refresh"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// appDeps holds injectable dependencies for testing.
type appDeps struct {
	gh      github.GitHub
	git     git.Git
	openURL func(url string) error
	repo    git.Repository
	store   *cache.Store
}

// appContext holds the resolved dependencies shared by every command.
type appContext struct {
	cfg          config.Config
	ghClient     github.GitHub
	gitClient    git.Git
	openURL      func(url string) error
	orchestrator *refresh.Orchestrator
	reconciler   *reconcile.Reconciler
	repo         git.Repository
	store        *cache.Store
}

// initAppContext initializes the context from deps (for testing) or from environment.
func initAppContext(deps *appDeps, cfg *config.Config) (*appContext, error) {
	if deps != nil {
		loadedCfg := config.DefaultConfig()
		if cfg != nil {
			loadedCfg = *cfg
		}
		openURL := deps.openURL
		if openURL == nil {
			openURL = browser.OpenURL
		}
		return newAppContext(loadedCfg, deps.gh, deps.git, deps.store, deps.repo, openURL), nil
	}

	return initAppContextFromEnv()
}

func newAppContext(cfg config.Config, gh github.GitHub, gitClient git.Git, store *cache.Store, repo git.Repository, openURL func(string) error) *appContext {
	reconciler := reconcile.NewReconciler(reconcile.NewGitOracle(gitClient), gitClient, cfg.Fetch.Concurrency)
	return &appContext{
		cfg:          cfg,
		ghClient:     gh,
		gitClient:    gitClient,
		openURL:      openURL,
		orchestrator: refresh.NewOrchestrator(gh, store, reconciler, repo, cfg.GitHub),
		reconciler:   reconciler,
		repo:         repo,
		store:        store,
	}
}

// loadConfig resolves the effective configuration for the repository around cwd.
// It also returns the raw git config and the working directory.
func loadConfig() (config.Config, map[string]string, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	defaults := config.DefaultConfig()
	gitClient := git.New(dryRunFlag, cwd, defaults.Git.Timeout, defaults.Git.FetchTimeout)

	worktreeRoot, err := gitClient.GetWorktreeRoot()
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("git error: %w", err)
	}
	if worktreeRoot == "" {
		return config.Config{}, nil, "", fmt.Errorf("git-pulls must be run inside a git repository")
	}

	mainWorktreePath, err := gitClient.GetMainWorktreePath()
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to get main worktree path: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	gitConfig, err := gitClient.ListConfig()
	if err != nil {
		return config.Config{}, nil, "", err
	}

	configPaths := config.ConfigPaths(cwd, worktreeRoot, mainWorktreePath, homeDir)
	loadResult, err := config.NewDefaultLoader().Resolve(configPaths, gitConfig)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	return loadResult.Config, gitConfig, cwd, nil
}

// initAppContextFromEnv loads config and creates clients from the environment.
func initAppContextFromEnv() (*appContext, error) {
	cfg, gitConfig, cwd, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Recreate git client with configured timeouts
	gitClient := git.New(dryRunFlag, cwd, cfg.Git.Timeout, cfg.Git.FetchTimeout)

	gitDir, err := gitClient.GitDir()
	if err != nil {
		return nil, err
	}

	remoteURL, err := git.ResolveRemoteURL(gitConfig, cfg.GitHub.RemoteName)
	if err != nil {
		return nil, err
	}
	repo, err := git.ParseRepository(remoteURL, cfg.GitHub.WebHost())
	if err != nil {
		return nil, err
	}

	ghClient, err := github.NewClient(cfg.GitHub)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore(cache.PathForGitDir(gitDir))
	return newAppContext(cfg, ghClient, gitClient, store, repo, browser.OpenURL), nil
}

// loadPulls returns the cached pull requests, refreshing when no cache exists yet.
func (a *appContext) loadPulls(cmd *cobra.Command) (*cache.Cache, error) {
	c, refreshed, err := a.orchestrator.LoadOrRefresh(commandContext(cmd))
	if errors.Is(err, cache.ErrCorruptCache) {
		return nil, fmt.Errorf("%w (run `git pulls update` to rebuild it)", err)
	}
	if err != nil {
		return nil, err
	}
	if refreshed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No cached pull requests, fetched %d open and %d closed\n", len(c.Open), len(c.Closed))
	}
	return c, nil
}

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
