package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	clog "github.com/charmbracelet/log"
	gh "github.com/google/go-github/v62/github"
	"github.com/jmcampanini/git-pulls/internal/config"
	"golang.org/x/oauth2"
)

const perPage = 100

type pullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts *gh.PullRequestListCommentsOptions) ([]*gh.PullRequestComment, *gh.Response, error)
}

type issuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error)
}

// Client implements GitHub on top of the REST API.
type Client struct {
	issues       issuesService
	log          *clog.Logger
	pullRequests pullRequestsService
}

// NewClient builds a REST client for the configured host.
// A token adds bearer auth, a proxy routes every request through it and a
// non-public API endpoint switches the client to enterprise URLs.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)

	if base := cfg.APIBaseURL(); base != publicAPIBaseURL {
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid api endpoint %q: %w", base, err)
		}
	}

	return newClient(client.PullRequests, client.Issues), nil
}

func newHTTPClient(cfg config.GitHubConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.Token == "" {
		return &http.Client{Transport: transport}, nil
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   transport,
		},
	}, nil
}

const publicAPIBaseURL = "https://api.github.com/"

func newClient(pulls pullRequestsService, issues issuesService) *Client {
	return &Client{
		issues:       issues,
		log:          clog.Default().WithPrefix("github"),
		pullRequests: pulls,
	}
}

func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, state PRState) ([]PullRecord, error) {
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid pull request state: %q", state)
	}

	opts := &gh.PullRequestListOptions{
		State:       state.String(),
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var records []PullRecord
	for {
		page, resp, err := c.pullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s pull requests for %s/%s: %w", state, owner, repo, err)
		}
		for _, p := range page {
			records = append(records, toPullRecord(p))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug("Listed pull requests", "repo", owner+"/"+repo, "state", state, "count", len(records))
	return records, nil
}

func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	var comments []Comment

	issueOpts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		page, resp, err := c.issues.ListComments(ctx, owner, repo, number, issueOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for #%d: %w", number, err)
		}
		for _, ic := range page {
			comments = append(comments, Comment{
				Author:    ic.GetUser().GetLogin(),
				Body:      ic.GetBody(),
				CreatedAt: ic.GetCreatedAt().Time,
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		issueOpts.Page = resp.NextPage
	}

	reviewOpts := &gh.PullRequestListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		page, resp, err := c.pullRequests.ListComments(ctx, owner, repo, number, reviewOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to list review comments for #%d: %w", number, err)
		}
		for _, rc := range page {
			comments = append(comments, Comment{
				Author:    rc.GetUser().GetLogin(),
				Body:      rc.GetBody(),
				CreatedAt: rc.GetCreatedAt().Time,
				Path:      rc.GetPath(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		reviewOpts.Page = resp.NextPage
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func toPullRecord(p *gh.PullRequest) PullRecord {
	head := p.GetHead()
	record := PullRecord{
		Number:    p.GetNumber(),
		Title:     p.GetTitle(),
		Body:      p.GetBody(),
		State:     PRState(p.GetState()),
		User:      p.GetUser().GetLogin(),
		CreatedAt: p.GetCreatedAt().Time,
		Head: HeadRef{
			Label: head.GetLabel(),
			SHA:   head.GetSHA(),
			Ref:   head.GetRef(),
		},
		HTMLURL:  p.GetHTMLURL(),
		PatchURL: p.GetPatchURL(),
	}

	if p.ClosedAt != nil {
		closed := p.ClosedAt.Time
		record.ClosedAt = &closed
	}

	if repo := head.GetRepo(); repo != nil {
		record.Head.Repository = &ForkRepo{
			Owner: repo.GetOwner().GetLogin(),
			Name:  repo.GetName(),
		}
	}

	return record
}
