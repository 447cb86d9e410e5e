package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRemote indicates the configured remote is missing from git config.
var ErrNoRemote = errors.New("remote not configured")

// Repository identifies a hosted repository as owner/name.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ResolveRemoteURL returns the URL of remoteName with any matching
// `url.<base>.insteadOf` rewrite applied. The longest matching prefix wins,
// as git does.
func ResolveRemoteURL(gitConfig map[string]string, remoteName string) (string, error) {
	remoteURL := strings.TrimSpace(gitConfig["remote."+remoteName+".url"])
	if remoteURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, remoteName)
	}

	var bestBase, bestShort string
	for key, short := range gitConfig {
		if !strings.HasPrefix(key, "url.") || !strings.HasSuffix(key, ".insteadof") {
			continue
		}
		base := strings.TrimSuffix(strings.TrimPrefix(key, "url."), ".insteadof")
		if short == "" || !strings.HasPrefix(remoteURL, short) {
			continue
		}
		if len(short) > len(bestShort) {
			bestBase, bestShort = base, short
		}
	}

	if bestShort != "" {
		remoteURL = bestBase + strings.TrimPrefix(remoteURL, bestShort)
	}
	return remoteURL, nil
}

// ParseRepository extracts owner/name from a remote URL hosted on host.
// Supported forms: git@host:owner/name.git, ssh://git@host/owner/name,
// https://host/owner/name(.git) and git://host/owner/name.
func ParseRepository(remoteURL, host string) (Repository, error) {
	trimmed := strings.TrimSpace(remoteURL)
	if host == "" {
		return Repository{}, fmt.Errorf("no host to match against %q", remoteURL)
	}

	idx := strings.Index(strings.ToLower(trimmed), strings.ToLower(host))
	if idx == -1 {
		return Repository{}, fmt.Errorf("remote %q is not hosted on %s", remoteURL, host)
	}

	rest := trimmed[idx+len(host):]
	if rest == "" || (rest[0] != ':' && rest[0] != '/') {
		return Repository{}, fmt.Errorf("remote %q has no repository path", remoteURL)
	}
	rest = strings.TrimLeft(rest[1:], "/")
	rest = strings.TrimSuffix(strings.TrimSuffix(rest, "/"), ".git")

	owner, name, ok := strings.Cut(rest, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("remote %q is not in owner/repo form", remoteURL)
	}

	return Repository{Owner: owner, Name: name}, nil
}
