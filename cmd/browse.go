package cmd

import (
	"fmt"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <number>",
	Short: "Open a pull request in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	return runBrowseWithDeps(cmd, args, nil, nil)
}

func runBrowseWithDeps(cmd *cobra.Command, args []string, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	p, ok, err := app.findPull(cmd, args[0])
	if err != nil || !ok {
		return err
	}

	if p.HTMLURL == "" {
		return fmt.Errorf("pull request #%d has no web URL", p.Number)
	}
	if err := app.openURL(p.HTMLURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", p.HTMLURL, err)
	}
	return nil
}
