package github

import "context"

type GitHub interface {

	// ListPullRequests returns every pull request in the given state.
	// Pagination is handled internally.
	ListPullRequests(ctx context.Context, owner, repo string, state PRState) ([]PullRecord, error)

	// ListComments returns issue and review comments for a pull request, oldest first.
	ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)
}
