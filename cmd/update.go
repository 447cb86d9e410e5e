package cmd

import (
	"fmt"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the pull request cache and fetch stale forks",
	Long: `Download open and closed pull requests, replace the local cache and fetch
every fork whose pull request head commit is not available locally. Fork
branches are stored under refs/pr/<owner>/<repo>/*.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	return runUpdateWithDeps(cmd, args, nil, nil)
}

func runUpdateWithDeps(cmd *cobra.Command, _ []string, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Updating %s\n", app.repo)

	result, err := app.orchestrator.Refresh(commandContext(cmd))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "Checking for forks in need of fetching")
	for _, res := range result.Report.Results {
		if res.Err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  failed %s: %v\n", res.Fork.FullName(), res.Err.Err)
			continue
		}
		_, _ = fmt.Fprintf(out, "  fetched %s\n", res.Fork.FullName())
	}

	return app.renderList(cmd, result.Cache.Open, github.PRStateOpen, false)
}
