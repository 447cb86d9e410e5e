package cmd

import (
	"fmt"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/naming"
	"github.com/spf13/cobra"
)

var checkoutForceFlag bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Create local branches for open pull requests",
	Long: `Create a local branch at the head commit of every open pull request.

Branch names come from checkout.branch_template (default "pull-{{.Number}}-{{.Ref}}").
Existing branches are left alone unless --force is given. When two pull
requests render the same name, only the first one gets the branch. Pull requests whose
head commit is not available locally are skipped; run update to fetch them.`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutForceFlag, "force", "f", false, "Reset existing branches to the pull request head")
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	return runCheckoutWithDeps(cmd, args, nil, nil)
}

func runCheckoutWithDeps(cmd *cobra.Command, _ []string, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	namer, err := naming.NewCheckoutNamer(app.cfg.Checkout, app.cfg.Slugify)
	if err != nil {
		return fmt.Errorf("failed to create branch namer: %w", err)
	}

	c, err := app.loadPulls(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)
	claimed := make(map[string]int, len(c.Open))
	for _, p := range c.Open {
		name, err := namer.BranchName(p)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Skipping #%d: %v\n", p.Number, err)
			continue
		}

		if exists, err := app.gitClient.CommitExists(ctx, p.Head.SHA); err != nil || !exists {
			_, _ = fmt.Fprintf(out, "Skipping #%d: head %s is not available locally\n", p.Number, shortSHA(p.Head.SHA))
			continue
		}

		if owner, ok := claimed[name]; ok {
			_, _ = fmt.Fprintf(out, "Skipping #%d: branch %s is already used by #%d\n", p.Number, name, owner)
			continue
		}
		claimed[name] = p.Number

		exists, err := app.gitClient.BranchExists(name)
		if err != nil {
			return err
		}
		if exists && !checkoutForceFlag {
			_, _ = fmt.Fprintf(out, "Skipping #%d: branch %s already exists\n", p.Number, name)
			continue
		}

		if err := app.gitClient.CreateBranch(name, p.Head.SHA, exists); err != nil {
			return fmt.Errorf("failed to create branch for #%d: %w", p.Number, err)
		}
		verb := "Created"
		if exists {
			verb = "Reset"
		}
		_, _ = fmt.Fprintf(out, "%s %s at %s (#%d)\n", verb, name, shortSHA(p.Head.SHA), p.Number)
	}

	if len(c.Open) == 0 {
		_, _ = fmt.Fprintln(out, " -- no open pull requests --")
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
