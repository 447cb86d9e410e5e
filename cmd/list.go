package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/jmcampanini/git-pulls/internal/naming"
	"github.com/jmcampanini/git-pulls/internal/pr"
	"github.com/spf13/cobra"
)

var listReverseFlag bool

var listCmd = &cobra.Command{
	Use:   "list [open|closed]",
	Short: "List cached pull requests",
	Long: `List pull requests from the local cache, open ones by default.

Open pull requests whose head is already merged into HEAD are hidden.
The "Local" column shows a checkmark when a local branch tracks the pull request.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"open", "closed"},
	RunE:      runList,
}

func init() {
	listCmd.Flags().BoolVar(&listReverseFlag, "reverse", false, "Show oldest pull requests last")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return runListWithDeps(cmd, args, nil, nil)
}

func runListWithDeps(cmd *cobra.Command, args []string, deps *appDeps, cfg *config.Config) error {
	state := github.PRStateOpen
	if len(args) == 1 {
		parsed, ok := github.ParsePRState(args[0])
		if !ok {
			return fmt.Errorf("unknown state %q: expected open or closed", args[0])
		}
		state = parsed
	}

	app, err := initAppContext(deps, cfg)
	if err != nil {
		return err
	}

	c, err := app.loadPulls(cmd)
	if err != nil {
		return err
	}

	return app.renderList(cmd, c.Partition(state), state, listReverseFlag)
}

// renderList prints the header, the table of pull requests and the cache age.
func (a *appContext) renderList(cmd *cobra.Command, prs []github.PullRecord, state github.PRState, reverse bool) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s Pull Requests for %s\n", titleCase(state.String()), a.repo)

	if state == github.PRStateOpen {
		prs = pr.NotMerged(prs, a.gitClient)
	}
	if reverse {
		prs = pr.Reversed(prs)
	}

	if len(prs) == 0 {
		_, err := fmt.Fprintf(out, " -- no %s pull requests --\n", state)
		return err
	}

	if err := outputListTable(cmd, a.matchBranches(prs), time.Now()); err != nil {
		return err
	}

	if mtime, err := a.store.ModTime(); err == nil {
		_, _ = fmt.Fprintf(out, "Cached %s\n", humanize.Time(mtime))
	}
	return nil
}

// matchBranches pairs pull requests with local branches. Errors only cost the Local column.
func (a *appContext) matchBranches(prs []github.PullRecord) []pr.BranchMatch {
	namer, _ := naming.NewCheckoutNamer(a.cfg.Checkout, a.cfg.Slugify)
	branches, _ := a.gitClient.ListLocalBranches()
	return pr.NewMatcher(namer).Match(prs, branches)
}

// outputListTable renders a lipgloss table to stdout.
func outputListTable(cmd *cobra.Command, matches []pr.BranchMatch, now time.Time) error {
	// Define colors
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	// Define styles
	headerStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddRowStyle := cellStyle.Foreground(gray)
	evenRowStyle := cellStyle.Foreground(lightGray)

	rows := make([][]string, len(matches))
	for i, match := range matches {
		localMarker := ""
		if match.HasBranch {
			localMarker = "✓" // checkmark
		}

		rows[i] = []string{
			fmt.Sprintf("%d", match.PR.Number),
			match.PR.CreatedAt.Format("01/02"),
			humanize.RelTime(match.PR.CreatedAt, now, "ago", "from now"),
			truncateString(clean(match.PR.Title), 40),
			truncateString(match.PR.Head.Label, 30),
			localMarker,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers("#", "Created", "Age", "Title", "Label", "Local").
		Rows(rows...)

	_, err := fmt.Fprintln(cmd.OutOrStdout(), t)
	return err
}

// clean replaces newlines and tabs with spaces so a value stays on one row.
func clean(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
