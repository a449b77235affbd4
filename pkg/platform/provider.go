package platform

import (
	"context"
	"time"
)

// Provider is the remote repository surface used by a release run.
// Implementations classify failures with the sentinels in errors.go.
type Provider interface {
	// GetFile fetches a file and its revision marker from ref.
	// Returns ErrNotFound if the path or ref does not exist.
	GetFile(ctx context.Context, path, ref string) (*File, error)

	// UpdateFile writes a file conditioned on update.Revision and returns
	// the new commit identifier. Returns ErrConflict if the revision is stale.
	UpdateFile(ctx context.Context, update FileUpdate) (string, error)

	// LastCommitForPath returns the most recent commit touching path on branch.
	LastCommitForPath(ctx context.Context, path, branch string) (*Commit, error)

	// ListTags returns every tag of the repository in the order the
	// remote lists them, following pagination.
	ListTags(ctx context.Context) ([]Tag, error)

	// CommitTime returns the author timestamp of a commit.
	CommitTime(ctx context.Context, sha string) (time.Time, error)

	// TagExists reports whether a tag reference with name exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// CreateTag creates an annotated tag object and publishes its reference.
	// Returns ErrConflict if the name is taken.
	CreateTag(ctx context.Context, req TagRequest) (*TagRef, error)

	// CreateBranch creates a branch pointing at sha.
	CreateBranch(ctx context.Context, name, sha string) error

	// ListClosedPullRequests returns one page of closed pull requests
	// targeting base, most recently updated first. Pages start at 1.
	ListClosedPullRequests(ctx context.Context, base string, page int) (*PullRequestPage, error)

	// ListPullRequests returns the pull requests from head into base in
	// any state, most recently updated first.
	ListPullRequests(ctx context.Context, head, base string) ([]PullRequestSummary, error)

	// CreatePullRequest opens a pull request and returns its URL.
	// Returns ErrConflict if one is already open for the same head and base.
	CreatePullRequest(ctx context.Context, pr ReleasePullRequest) (string, error)

	// PlatformName returns "GitHub" or "GitLab".
	PlatformName() string
}
