package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config represents the complete git-pulls configuration.
type Config struct {
	Checkout CheckoutConfig `toml:"checkout"`
	Fetch    FetchConfig    `toml:"fetch"`
	Git      GitConfig      `toml:"git"`
	GitHub   GitHubConfig   `toml:"github"`
	Slugify  SlugifyConfig  `toml:"slugify"`
}

// Validate checks that all config values are valid.
// Returns an error describing the first invalid value found.
func (c Config) Validate() error {
	if c.Git.Timeout < 0 {
		return errors.New("git.timeout cannot be negative")
	}
	if c.Git.FetchTimeout < 0 {
		return errors.New("git.fetch_timeout cannot be negative")
	}
	if c.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be at least 1")
	}
	if c.GitHub.RemoteName == "" {
		return errors.New("github.remote_name cannot be empty")
	}
	if err := validateEndpoint("github.web_endpoint", c.GitHub.WebEndpoint, true); err != nil {
		return err
	}
	if err := validateEndpoint("github.api_endpoint", c.GitHub.APIEndpoint, false); err != nil {
		return err
	}
	if err := validateEndpoint("github.proxy", c.GitHub.Proxy, false); err != nil {
		return err
	}
	if c.Slugify.HashLength < 0 {
		return errors.New("slugify.hash_length cannot be negative")
	}
	if c.Slugify.MaxLength < 0 {
		return errors.New("slugify.max_length cannot be negative")
	}
	if c.Slugify.MaxLength > 0 && c.Slugify.HashLength > c.Slugify.MaxLength-2 {
		return errors.New("slugify.hash_length must be at least 2 less than slugify.max_length")
	}
	return nil
}

func validateEndpoint(key, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s cannot be empty", key)
		}
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL: %s", key, value)
	}
	return nil
}

// CheckoutConfig configures local branches created by `checkout`.
type CheckoutConfig struct {
	// BranchTemplate is a text/template rendered with the PR number, head ref, owner and title slug.
	BranchTemplate string `toml:"branch_template"` // e.g., "pull-{{.Number}}-{{.Ref}}"
}

// FetchConfig configures fork reconciliation.
type FetchConfig struct {
	Concurrency int `toml:"concurrency"` // Max parallel git queries and fetches
}

// GitConfig configures git command execution.
type GitConfig struct {
	Timeout      time.Duration `toml:"timeout"`       // Timeout for local git commands (e.g., "5s")
	FetchTimeout time.Duration `toml:"fetch_timeout"` // Timeout for a single fork fetch
}

// GitHubConfig holds credentials and endpoints for the upstream server.
type GitHubConfig struct {
	Login       string `toml:"login"`
	Token       string `toml:"token"`
	WebEndpoint string `toml:"web_endpoint"` // e.g., "https://github.com"
	APIEndpoint string `toml:"api_endpoint"` // empty derives from web_endpoint
	Proxy       string `toml:"proxy"`
	RemoteName  string `toml:"remote_name"` // remote treated as canonical, e.g., "origin"
}

// HasCredentials reports whether authenticated access is configured.
func (g GitHubConfig) HasCredentials() bool {
	return g.Login != "" || g.Token != ""
}

// WebHost returns the host part of WebEndpoint, e.g., "github.com".
func (g GitHubConfig) WebHost() string {
	u, err := url.Parse(g.WebEndpoint)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(g.WebEndpoint, "/")
	}
	return u.Host
}

// SSHHost returns the host name of WebEndpoint without any port. scp-style
// git URLs have no port field, so "https://ghe:8443" yields "ghe".
func (g GitHubConfig) SSHHost() string {
	u, err := url.Parse(g.WebEndpoint)
	if err != nil || u.Hostname() == "" {
		return g.WebHost()
	}
	return u.Hostname()
}

// APIBaseURL returns the REST API root. An explicit APIEndpoint wins; github.com
// maps to the public API; any other host is assumed to be GitHub Enterprise.
func (g GitHubConfig) APIBaseURL() string {
	if g.APIEndpoint != "" {
		return strings.TrimSuffix(g.APIEndpoint, "/") + "/"
	}
	host := g.WebHost()
	if host == "github.com" || host == "" {
		return "https://api.github.com/"
	}
	return strings.TrimSuffix(g.WebEndpoint, "/") + "/api/v3/"
}

// SlugifyConfig configures slug generation.
type SlugifyConfig struct {
	CollapseDashes     bool `toml:"collapse_dashes"`
	HashLength         int  `toml:"hash_length"`
	Lowercase          bool `toml:"lowercase"`
	MaxLength          int  `toml:"max_length"`
	ReplaceNonAlphanum bool `toml:"replace_non_alphanum"`
	TrimDashes         bool `toml:"trim_dashes"`
}

// Redacted returns a copy safe for printing.
func (c Config) Redacted() Config {
	if c.GitHub.Token != "" {
		c.GitHub.Token = "<redacted>"
	}
	return c
}
