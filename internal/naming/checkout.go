package naming

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
)

// BranchTemplateData contains data available to the checkout branch template.
type BranchTemplateData struct {
	Number int    // Pull request number (e.g., 42)
	Owner  string // Fork owner, empty when the fork was deleted
	Ref    string // Head branch in the fork (e.g., "feature/add-auth")
	Repo   string // Fork repository name
	Slug   string // Slugified title
}

// CheckoutNamer names the local branches created by checkout.
type CheckoutNamer struct {
	branchTemplate *template.Template
	slugifyOpts    SlugifyOptions
}

// NewCheckoutNamer creates a namer from checkout and slugify config.
// Returns an error if the template is invalid or produces invalid branch names.
func NewCheckoutNamer(checkoutCfg config.CheckoutConfig, slugCfg config.SlugifyConfig) (*CheckoutNamer, error) {
	tmpl, err := template.New("branch").Option("missingkey=error").Parse(checkoutCfg.BranchTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid branch_template: %w", err)
	}

	var buf bytes.Buffer
	sample := BranchTemplateData{Number: 1, Owner: "octo", Ref: "test/branch", Repo: "hello", Slug: "add-feature"}
	if err := tmpl.Execute(&buf, sample); err != nil {
		return nil, fmt.Errorf("branch_template uses invalid field: %w", err)
	}

	if !isValidBranchName(buf.String()) {
		return nil, fmt.Errorf("branch_template produces invalid branch name: %s", buf.String())
	}

	return &CheckoutNamer{
		branchTemplate: tmpl,
		slugifyOpts:    NewSlugifyOptions(slugCfg),
	}, nil
}

// NewSlugifyOptions maps config onto SlugifyOptions.
func NewSlugifyOptions(slugCfg config.SlugifyConfig) SlugifyOptions {
	return SlugifyOptions{
		CollapseDashes:     slugCfg.CollapseDashes,
		HashLength:         slugCfg.HashLength,
		Lowercase:          slugCfg.Lowercase,
		MaxLength:          slugCfg.MaxLength,
		ReplaceNonAlphaNum: slugCfg.ReplaceNonAlphanum,
		TrimDashes:         slugCfg.TrimDashes,
	}
}

// BranchName renders the local branch name for a pull request.
func (n *CheckoutNamer) BranchName(pr github.PullRecord) (string, error) {
	data := BranchTemplateData{
		Number: pr.Number,
		Ref:    pr.Head.Ref,
		Slug:   Slugify(pr.Title, n.slugifyOpts),
	}
	if fork, ok := pr.Fork(); ok {
		data.Owner = fork.Owner
		data.Repo = fork.Name
	}

	var buf bytes.Buffer
	if err := n.branchTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to generate branch name for #%d: %w", pr.Number, err)
	}

	name := buf.String()
	if !isValidBranchName(name) {
		return "", fmt.Errorf("invalid branch name for #%d: %q", pr.Number, name)
	}
	return name, nil
}

// isValidBranchName validates git branch name with simplified rules.
// Checks only the most common invalid patterns:
// - No ".." anywhere
// - No control characters, spaces or any of ~^:?*[\
// - No leading "-" or "/", no trailing "/" or ".lock"
// Edge cases not covered here fail at `git branch` time with git's own message.
func isValidBranchName(name string) bool {
	if name == "" {
		return false
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".lock") {
		return false
	}

	if strings.Contains(name, "..") || strings.ContainsAny(name, " ~^:?*[\\") {
		return false
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return false
		}
	}

	return true
}
