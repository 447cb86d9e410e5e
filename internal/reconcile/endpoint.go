package reconcile

import (
	"fmt"
	"strings"

	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/jmcampanini/git-pulls/internal/github"
)

// EndpointStrategy turns a fork into a URL git can fetch from.
type EndpointStrategy interface {
	RemoteURL(fork github.ForkRepo) string
}

// SSHEndpoint builds git@host:owner/repo.git URLs.
type SSHEndpoint struct {
	Host string
}

func (e SSHEndpoint) RemoteURL(fork github.ForkRepo) string {
	return fmt.Sprintf("git@%s:%s/%s.git", e.Host, fork.Owner, fork.Name)
}

// HTTPSEndpoint builds unauthenticated <base>/owner/repo.git URLs.
type HTTPSEndpoint struct {
	BaseURL string
}

func (e HTTPSEndpoint) RemoteURL(fork github.ForkRepo) string {
	return fmt.Sprintf("%s/%s/%s.git", strings.TrimSuffix(e.BaseURL, "/"), fork.Owner, fork.Name)
}

// SelectEndpoint uses SSH when credentials are configured, HTTPS otherwise.
// Call it once per reconciliation pass.
func SelectEndpoint(cfg config.GitHubConfig) EndpointStrategy {
	if cfg.HasCredentials() {
		return SSHEndpoint{Host: cfg.SSHHost()}
	}
	return HTTPSEndpoint{BaseURL: cfg.WebEndpoint}
}

// ForkRefspec maps every branch of fork into refs/pr/<owner>/<repo>/.
func ForkRefspec(fork github.ForkRepo) string {
	return fmt.Sprintf("+refs/heads/*:refs/pr/%s/%s/*", fork.Owner, fork.Name)
}
