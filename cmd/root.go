package cmd

import (
	"fmt"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "n/a"

var (
	dryRunFlag  bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "git-pulls",
	Short: "Inspect and act on GitHub pull requests from git",
	Long: `git-pulls caches a repository's pull requests locally and keeps every
pull request head commit reachable by fetching contributor forks into
refs/pr/<owner>/<repo>/*.

Usage: git pulls update
   or: git pulls list [open|closed] [--reverse]
   or: git pulls show <number> [--comments] [--full]
   or: git pulls browse <number>
   or: git pulls merge <number> [--log|--no-commit]
   or: git pulls checkout [--force]`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runRoot,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verboseFlag {
			clog.SetLevel(clog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Print mutating git commands instead of running them")
}

// runRoot handles a bare invocation and unknown commands.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No command: %s\n", args[0])
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Try: update, list, show, merge, browse, checkout")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "or call with '-h' for usage information")
		return nil
	}
	return cmd.Help()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
