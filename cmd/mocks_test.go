package cmd

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jmcampanini/git-pulls/internal/cache"
	"github.com/jmcampanini/git-pulls/internal/git"
	"github.com/jmcampanini/git-pulls/internal/github"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// mockGitHub implements github.GitHub for testing
type mockGitHub struct {
	listCommentsFn     func(number int) ([]github.Comment, error)
	listPullRequestsFn func(state github.PRState) ([]github.PullRecord, error)
}

func (m *mockGitHub) ListPullRequests(_ context.Context, _, _ string, state github.PRState) ([]github.PullRecord, error) {
	if m.listPullRequestsFn != nil {
		return m.listPullRequestsFn(state)
	}
	return nil, nil
}

func (m *mockGitHub) ListComments(_ context.Context, _, _ string, number int) ([]github.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(number)
	}
	return nil, nil
}

// mockGit implements git.Git for testing
type mockGit struct {
	mu sync.Mutex

	branchExistsFn      func(branchName string) (bool, error)
	commitExistsFn      func(sha string) (bool, error)
	createBranchFn      func(branchName, sha string, force bool) error
	diffFn              func(sha string) (string, error)
	diffStatFn          func(sha string) (string, error)
	fetchFn             func(remoteURL, refspec string) error
	isMergedFn          func(sha string) (bool, error)
	listLocalBranchesFn func() ([]git.LocalBranch, error)
	mergeFn             func(opts git.MergeOptions) (string, error)

	fetches []string
}

func (m *mockGit) CommitExists(_ context.Context, sha string) (bool, error) {
	if m.commitExistsFn != nil {
		return m.commitExistsFn(sha)
	}
	return true, nil
}

func (m *mockGit) Fetch(_ context.Context, remoteURL, refspec string) error {
	m.mu.Lock()
	m.fetches = append(m.fetches, remoteURL)
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(remoteURL, refspec)
	}
	return nil
}

func (m *mockGit) ListConfig() (map[string]string, error) { return map[string]string{}, nil }

func (m *mockGit) GitDir() (string, error) { return "/repo/.git", nil }

func (m *mockGit) GetCurrentBranch() (string, error) { return "main", nil }

func (m *mockGit) GetMainWorktreePath() (string, error) { return "/repo", nil }

func (m *mockGit) GetWorktreeRoot() (string, error) { return "/repo", nil }

func (m *mockGit) IsMerged(sha string) (bool, error) {
	if m.isMergedFn != nil {
		return m.isMergedFn(sha)
	}
	return false, nil
}

func (m *mockGit) DiffStat(sha string) (string, error) {
	if m.diffStatFn != nil {
		return m.diffStatFn(sha)
	}
	return "", nil
}

func (m *mockGit) Diff(sha string) (string, error) {
	if m.diffFn != nil {
		return m.diffFn(sha)
	}
	return "", nil
}

func (m *mockGit) Merge(opts git.MergeOptions) (string, error) {
	if m.mergeFn != nil {
		return m.mergeFn(opts)
	}
	return "", nil
}

func (m *mockGit) BranchExists(branchName string) (bool, error) {
	if m.branchExistsFn != nil {
		return m.branchExistsFn(branchName)
	}
	return false, nil
}

func (m *mockGit) CreateBranch(branchName, sha string, force bool) error {
	if m.createBranchFn != nil {
		return m.createBranchFn(branchName, sha, force)
	}
	return nil
}

func (m *mockGit) ListLocalBranches() ([]git.LocalBranch, error) {
	if m.listLocalBranchesFn != nil {
		return m.listLocalBranchesFn()
	}
	return nil, nil
}

const (
	testSHA1 = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1111"
	testSHA2 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb2222"
)

func testPull(number int, title, sha string) github.PullRecord {
	return github.PullRecord{
		Number:    number,
		Title:     title,
		Body:      "Body of " + title,
		State:     github.PRStateOpen,
		User:      "alice",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		Head: github.HeadRef{
			Label:      "alice:feature-" + title,
			SHA:        sha,
			Ref:        "feature-" + title,
			Repository: &github.ForkRepo{Owner: "alice", Name: "fork1"},
		},
		HTMLURL:  "https://github.com/octo/hello/pull/" + strconv.Itoa(number),
		PatchURL: "https://github.com/octo/hello/pull/" + strconv.Itoa(number) + ".patch",
	}
}

// newTestDeps wires mocks to a store in a temp dir, optionally pre-populated.
func newTestDeps(t *testing.T, gh *mockGitHub, g *mockGit, cached *cache.Cache) *appDeps {
	t.Helper()
	store := cache.NewStore(cache.PathForGitDir(t.TempDir()))
	if cached != nil {
		require.NoError(t, store.Save(cached))
	}
	return &appDeps{
		gh:    gh,
		git:   g,
		repo:  git.Repository{Owner: "octo", Name: "hello"},
		store: store,
	}
}

// newTestCommand returns a command whose output is captured.
func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}
