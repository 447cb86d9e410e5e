package github

import (
	"strings"
	"time"
)

type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)

func (s PRState) String() string {
	return string(s)
}

func (s PRState) IsValid() bool {
	switch s {
	case PRStateOpen, PRStateClosed:
		return true
	}
	return false
}

// ParsePRState converts user input such as "open" or "CLOSED" into a PRState.
func ParsePRState(s string) (PRState, bool) {
	switch PRState(strings.ToLower(strings.TrimSpace(s))) {
	case PRStateOpen:
		return PRStateOpen, true
	case PRStateClosed:
		return PRStateClosed, true
	}
	return "", false
}

// ForkRepo identifies the repository a pull request head lives in.
type ForkRepo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (f ForkRepo) FullName() string {
	return f.Owner + "/" + f.Name
}

// HeadRef describes the head side of a pull request.
type HeadRef struct {
	Label string `json:"label"`
	SHA   string `json:"sha"`
	Ref   string `json:"ref"`
	// Repository is nil when the source fork was deleted after the PR was opened.
	Repository *ForkRepo `json:"repository"`
}

// PullRecord is the cached representation of a single pull request.
// Field names follow the GitHub REST API; unknown fields are ignored on decode.
type PullRecord struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	State     PRState    `json:"state"`
	User      string     `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Head      HeadRef    `json:"head"`
	HTMLURL   string     `json:"html_url"`
	PatchURL  string     `json:"patch_url"`
}

// Fork returns the head repository, or false if the fork was deleted.
func (p PullRecord) Fork() (ForkRepo, bool) {
	if p.Head.Repository == nil {
		return ForkRepo{}, false
	}
	return *p.Head.Repository, true
}

// HasDeletedFork reports whether the head repository no longer exists.
func (p PullRecord) HasDeletedFork() bool {
	return p.Head.Repository == nil
}

// Comment is a single discussion entry on a pull request.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
	Path      string // File path for review comments, empty for issue comments
}
