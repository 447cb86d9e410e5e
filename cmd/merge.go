package cmd

import (
	"errors"
	"fmt"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/jmcampanini/git-pulls/internal/pr"
	"github.com/jmcampanini/git-pulls/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	mergeLogFlag      bool
	mergeNoCommitFlag bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <number>",
	Short: "Merge a pull request into the current branch",
	Long: `Merge a pull request's head commit into the current branch with
git merge --no-ff. The fork is fetched first when the head commit is not
available locally.

Pull requests whose source repository was deleted cannot be merged this way;
the patch URL is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeLogFlag, "log", false, "Include one-line descriptions of the merged commits")
	mergeCmd.Flags().BoolVar(&mergeNoCommitFlag, "no-commit", false, "Perform the merge but stop before committing")
	mergeCmd.MarkFlagsMutuallyExclusive("log", "no-commit")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	return runMergeWithDeps(cmd, args, nil, nil)
}

func runMergeWithDeps(cmd *cobra.Command, args []string, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	p, ok, err := app.findPull(cmd, args[0])
	if err != nil || !ok {
		return err
	}

	opts, err := pr.MergePlan(p, mergeLogFlag, mergeNoCommitFlag)
	var deleted *pr.DeletedSourceError
	if errors.As(err, &deleted) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sorry, %s deleted the source repository, git-pulls doesn't support this.\n", deleted.User)
		_, _ = fmt.Fprint(cmd.OutOrStdout(), deleted.Guidance())
		return err
	}
	if err != nil {
		return err
	}

	if err := app.ensureReachable(cmd, p); err != nil {
		return err
	}

	if branch, err := app.gitClient.GetCurrentBranch(); err == nil && branch != "HEAD" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Merging #%d into %s\n", p.Number, branch)
	}

	output, err := app.gitClient.Merge(opts)
	if output != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
	}
	if err != nil {
		return fmt.Errorf("merge of #%d failed: %w", p.Number, err)
	}
	return nil
}

// ensureReachable fetches the pull request's fork when its head commit is missing.
func (a *appContext) ensureReachable(cmd *cobra.Command, p github.PullRecord) error {
	ctx := commandContext(cmd)
	forks := a.reconciler.ComputeMissingForks(ctx, []github.PullRecord{p})
	if len(forks) == 0 {
		return nil
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Fetching %s\n", forks[0].FullName())
	report := a.reconciler.FetchAll(ctx, forks, reconcile.SelectEndpoint(a.cfg.GitHub))
	return report.Err()
}
