package config

import (
	"os"
	"strings"
)

// Git config keys that override file-based settings. Keys are lower-case
// because `git config --list` normalizes section and variable names.
const (
	gitKeyLogin      = "github.user"
	gitKeyToken      = "github.token"
	gitKeyHost       = "github.host"
	gitKeyAPI        = "github.api"
	gitKeyProxy      = "http.proxy"
	gitKeyRemoteName = "pulls.remote"

	tokenEnvVar = "GITHUB_TOKEN"
)

// ApplyGitConfig overlays values from `git config --list` onto cfg.
// Empty values are ignored so a blank git setting never clears a file setting.
func ApplyGitConfig(cfg Config, gitConfig map[string]string) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(gitConfig[key]); v != "" {
			*dst = v
		}
	}

	set(&cfg.GitHub.Login, gitKeyLogin)
	set(&cfg.GitHub.Token, gitKeyToken)
	set(&cfg.GitHub.APIEndpoint, gitKeyAPI)
	set(&cfg.GitHub.Proxy, gitKeyProxy)
	set(&cfg.GitHub.RemoteName, gitKeyRemoteName)

	if host := strings.TrimSpace(gitConfig[gitKeyHost]); host != "" {
		if !strings.Contains(host, "://") {
			host = "https://" + host
		}
		cfg.GitHub.WebEndpoint = strings.TrimSuffix(host, "/")
	}

	return cfg
}

// ApplyEnv fills the token from GITHUB_TOKEN when nothing else configured one.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = strings.TrimSpace(getenv(tokenEnvVar))
	}
	return cfg
}
