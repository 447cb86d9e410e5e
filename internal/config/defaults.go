package config

import "time"

// DefaultConfig returns sensible defaults for all configuration.
func DefaultConfig() Config {
	return Config{
		Checkout: CheckoutConfig{
			BranchTemplate: "pull-{{.Number}}-{{.Ref}}",
		},
		Fetch: FetchConfig{
			Concurrency: 4,
		},
		Git: GitConfig{
			Timeout:      5 * time.Second,
			FetchTimeout: 2 * time.Minute,
		},
		GitHub: GitHubConfig{
			WebEndpoint: "https://github.com",
			RemoteName:  "origin",
		},
		Slugify: SlugifyConfig{
			CollapseDashes:     true,
			HashLength:         4,
			Lowercase:          true,
			MaxLength:          50,
			ReplaceNonAlphanum: true,
			TrimDashes:         true,
		},
	}
}
