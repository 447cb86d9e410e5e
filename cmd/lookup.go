package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/spf13/cobra"
)

// findPull resolves a pull request number against the cache.
// A miss prints "No such number" and returns ok=false with a nil error.
func (a *appContext) findPull(cmd *cobra.Command, arg string) (github.PullRecord, bool, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		return github.PullRecord{}, false, fmt.Errorf("invalid pull request number: %s", arg)
	}

	c, err := a.loadPulls(cmd)
	if err != nil {
		return github.PullRecord{}, false, err
	}

	p, ok := c.Find(number)
	if !ok {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No such number: #%d\n", number)
		return github.PullRecord{}, false, nil
	}
	return p, true, nil
}
