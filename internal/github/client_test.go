package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type mockPullRequests struct {
	listFunc         func(opts *gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error)
	listCommentsFunc func(number int, opts *gh.PullRequestListCommentsOptions) ([]*gh.PullRequestComment, *gh.Response, error)
}

func (m *mockPullRequests) List(_ context.Context, _, _ string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error) {
	return m.listFunc(opts)
}

func (m *mockPullRequests) ListComments(_ context.Context, _, _ string, number int, opts *gh.PullRequestListCommentsOptions) ([]*gh.PullRequestComment, *gh.Response, error) {
	if m.listCommentsFunc == nil {
		return nil, &gh.Response{}, nil
	}
	return m.listCommentsFunc(number, opts)
}

type mockIssues struct {
	listCommentsFunc func(number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error)
}

func (m *mockIssues) ListComments(_ context.Context, _, _ string, number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error) {
	if m.listCommentsFunc == nil {
		return nil, &gh.Response{}, nil
	}
	return m.listCommentsFunc(number, opts)
}

func ts(t time.Time) *gh.Timestamp {
	return &gh.Timestamp{Time: t}
}

func forkPR(number int, sha, owner, name string) *gh.PullRequest {
	return &gh.PullRequest{
		Number: gh.Int(number),
		Title:  gh.String("Add feature"),
		State:  gh.String("open"),
		User:   &gh.User{Login: gh.String("alice")},
		Head: &gh.PullRequestBranch{
			Label: gh.String(owner + ":feature"),
			SHA:   gh.String(sha),
			Ref:   gh.String("feature"),
			Repo: &gh.Repository{
				Owner: &gh.User{Login: gh.String(owner)},
				Name:  gh.String(name),
			},
		},
	}
}

func TestToPullRecord(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	closed := created.Add(48 * time.Hour)

	t.Run("fork head", func(t *testing.T) {
		p := forkPR(42, "aaa111", "alice", "fork1")
		p.Body = gh.String("Body text")
		p.CreatedAt = ts(created)
		p.HTMLURL = gh.String("https://github.com/octo/hello/pull/42")
		p.PatchURL = gh.String("https://github.com/octo/hello/pull/42.patch")

		got := toPullRecord(p)

		assert.Equal(t, 42, got.Number)
		assert.Equal(t, "Add feature", got.Title)
		assert.Equal(t, "Body text", got.Body)
		assert.Equal(t, PRStateOpen, got.State)
		assert.Equal(t, "alice", got.User)
		assert.Equal(t, created, got.CreatedAt)
		assert.Nil(t, got.ClosedAt)
		assert.Equal(t, HeadRef{
			Label:      "alice:feature",
			SHA:        "aaa111",
			Ref:        "feature",
			Repository: &ForkRepo{Owner: "alice", Name: "fork1"},
		}, got.Head)
		assert.Equal(t, "https://github.com/octo/hello/pull/42", got.HTMLURL)
		assert.Equal(t, "https://github.com/octo/hello/pull/42.patch", got.PatchURL)
	})

	t.Run("deleted fork and closed", func(t *testing.T) {
		p := forkPR(7, "bbb222", "bob", "gone")
		p.Head.Repo = nil
		p.State = gh.String("closed")
		p.ClosedAt = ts(closed)

		got := toPullRecord(p)

		assert.True(t, got.HasDeletedFork())
		assert.Equal(t, PRStateClosed, got.State)
		require.NotNil(t, got.ClosedAt)
		assert.Equal(t, closed, *got.ClosedAt)
	})
}

func TestClient_ListPullRequests_Paginates(t *testing.T) {
	var pagesRequested []int
	pulls := &mockPullRequests{
		listFunc: func(opts *gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error) {
			pagesRequested = append(pagesRequested, opts.Page)
			assert.Equal(t, "open", opts.State)
			assert.Equal(t, perPage, opts.PerPage)
			switch opts.Page {
			case 0:
				return []*gh.PullRequest{forkPR(1, "a1", "alice", "fork1")}, &gh.Response{NextPage: 2}, nil
			case 2:
				return []*gh.PullRequest{forkPR(2, "b2", "bob", "fork2")}, &gh.Response{}, nil
			}
			t.Fatalf("unexpected page %d", opts.Page)
			return nil, nil, nil
		},
	}
	client := newClient(pulls, &mockIssues{})

	records, err := client.ListPullRequests(context.Background(), "octo", "hello", PRStateOpen)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, pagesRequested)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Number)
	assert.Equal(t, 2, records[1].Number)
}

func TestClient_ListPullRequests_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		apiErr := errors.New("502 bad gateway")
		pulls := &mockPullRequests{
			listFunc: func(*gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error) {
				return nil, nil, apiErr
			},
		}
		client := newClient(pulls, &mockIssues{})

		_, err := client.ListPullRequests(context.Background(), "octo", "hello", PRStateClosed)

		require.Error(t, err)
		assert.ErrorIs(t, err, apiErr)
		assert.Contains(t, err.Error(), "octo/hello")
	})

	t.Run("invalid state", func(t *testing.T) {
		client := newClient(&mockPullRequests{}, &mockIssues{})

		_, err := client.ListPullRequests(context.Background(), "octo", "hello", PRState("all"))

		require.Error(t, err)
	})
}

func TestClient_ListComments_MergesAndSorts(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	issues := &mockIssues{
		listCommentsFunc: func(number int, _ *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error) {
			assert.Equal(t, 42, number)
			return []*gh.IssueComment{
				{User: &gh.User{Login: gh.String("carol")}, Body: gh.String("third"), CreatedAt: ts(base.Add(3 * time.Hour))},
				{User: &gh.User{Login: gh.String("alice")}, Body: gh.String("first"), CreatedAt: ts(base.Add(1 * time.Hour))},
			}, &gh.Response{}, nil
		},
	}
	pulls := &mockPullRequests{
		listCommentsFunc: func(number int, _ *gh.PullRequestListCommentsOptions) ([]*gh.PullRequestComment, *gh.Response, error) {
			return []*gh.PullRequestComment{
				{User: &gh.User{Login: gh.String("bob")}, Body: gh.String("second"), Path: gh.String("main.go"), CreatedAt: ts(base.Add(2 * time.Hour))},
			}, &gh.Response{}, nil
		},
	}
	client := newClient(pulls, issues)

	comments, err := client.ListComments(context.Background(), "octo", "hello", 42)

	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{comments[0].Body, comments[1].Body, comments[2].Body})
	assert.Equal(t, "main.go", comments[1].Path)
	assert.Empty(t, comments[0].Path)
}

func TestClient_ListComments_Error(t *testing.T) {
	apiErr := errors.New("not found")
	issues := &mockIssues{
		listCommentsFunc: func(int, *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error) {
			return nil, nil, apiErr
		},
	}
	client := newClient(&mockPullRequests{}, issues)

	_, err := client.ListComments(context.Background(), "octo", "hello", 1)

	assert.ErrorIs(t, err, apiErr)
}

func TestNewClient(t *testing.T) {
	t.Run("public api without token", func(t *testing.T) {
		cfg := config.DefaultConfig().GitHub

		client, err := NewClient(cfg)

		require.NoError(t, err)
		ghClient := client.pullRequests.(*gh.PullRequestsService)
		assert.NotNil(t, ghClient)
	})

	t.Run("token uses oauth2 transport", func(t *testing.T) {
		cfg := config.DefaultConfig().GitHub
		cfg.Token = "secret"

		httpClient, err := newHTTPClient(cfg)

		require.NoError(t, err)
		_, ok := httpClient.Transport.(*oauth2.Transport)
		assert.True(t, ok)
	})

	t.Run("proxy is applied", func(t *testing.T) {
		cfg := config.DefaultConfig().GitHub
		cfg.Proxy = "http://proxy.internal:3128"

		httpClient, err := newHTTPClient(cfg)

		require.NoError(t, err)
		transport, ok := httpClient.Transport.(*http.Transport)
		require.True(t, ok)
		req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/", nil)
		proxyURL, err := transport.Proxy(req)
		require.NoError(t, err)
		assert.Equal(t, "proxy.internal:3128", proxyURL.Host)
	})

	t.Run("enterprise endpoint", func(t *testing.T) {
		cfg := config.DefaultConfig().GitHub
		cfg.WebEndpoint = "https://ghe.example.com"

		_, err := NewClient(cfg)

		require.NoError(t, err)
	})
}
