package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/spf13/cobra"
)

var (
	showCommentsFlag bool
	showFullFlag     bool
)

var showCmd = &cobra.Command{
	Use:   "show <number>",
	Short: "Show a pull request and its diff",
	Long: `Show the details of a cached pull request followed by a diffstat of its
head against HEAD. Use --full for the complete diff and --comments to include
the discussion.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showCommentsFlag, "comments", false, "Include issue and review comments")
	showCmd.Flags().BoolVar(&showFullFlag, "full", false, "Show the full diff instead of a diffstat")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return runShowWithDeps(cmd, args, nil, nil)
}

func runShowWithDeps(cmd *cobra.Command, args []string, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	p, ok, err := app.findPull(cmd, args[0])
	if err != nil || !ok {
		return err
	}

	out := cmd.OutOrStdout()
	writePullDetails(out, p)

	if showCommentsFlag {
		comments, err := app.ghClient.ListComments(commandContext(cmd), app.repo.Owner, app.repo.Name, p.Number)
		if err != nil {
			return fmt.Errorf("failed to load comments: %w", err)
		}
		writeComments(out, comments)
	}

	if p.Head.SHA == "" {
		return nil
	}
	if exists, err := app.gitClient.CommitExists(commandContext(cmd), p.Head.SHA); err != nil || !exists {
		_, _ = fmt.Fprintf(out, "Head %s is not available locally, run update first\n", p.Head.SHA)
		return nil
	}

	if showFullFlag {
		diff, err := app.gitClient.Diff(p.Head.SHA)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, diff)
		return err
	}

	stat, err := app.gitClient.DiffStat(p.Head.SHA)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "cmd: git diff HEAD...%s\n", p.Head.SHA)
	_, err = fmt.Fprint(out, stat)
	return err
}

func writePullDetails(out io.Writer, p github.PullRecord) {
	_, _ = fmt.Fprintf(out, "Number   : %d\n", p.Number)
	_, _ = fmt.Fprintf(out, "Label    : %s\n", p.Head.Label)
	_, _ = fmt.Fprintf(out, "State    : %s\n", p.State)
	_, _ = fmt.Fprintf(out, "Author   : %s\n", p.User)
	_, _ = fmt.Fprintf(out, "Created  : %s (%s)\n", p.CreatedAt.Format("2006-01-02 15:04"), humanize.Time(p.CreatedAt))
	if p.ClosedAt != nil {
		_, _ = fmt.Fprintf(out, "Closed   : %s (%s)\n", p.ClosedAt.Format("2006-01-02 15:04"), humanize.Time(*p.ClosedAt))
	}
	if fork, ok := p.Fork(); ok {
		_, _ = fmt.Fprintf(out, "Fork     : %s\n", fork.FullName())
	} else {
		_, _ = fmt.Fprintln(out, "Fork     : (deleted)")
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Title    : %s\n", p.Title)
	_, _ = fmt.Fprintln(out, "Body     :")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, p.Body)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "------------")
	_, _ = fmt.Fprintln(out)
}

func writeComments(out io.Writer, comments []github.Comment) {
	_, _ = fmt.Fprintf(out, "Comments : %d\n\n", len(comments))
	for _, c := range comments {
		where := ""
		if c.Path != "" {
			where = " on " + c.Path
		}
		_, _ = fmt.Fprintf(out, "%s%s, %s:\n", c.Author, where, humanize.Time(c.CreatedAt))
		_, _ = fmt.Fprintln(out, c.Body)
		_, _ = fmt.Fprintln(out)
	}
	_, _ = fmt.Fprintln(out, "------------")
	_, _ = fmt.Fprintln(out)
}
