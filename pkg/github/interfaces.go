package github

import (
	"context"

	"github.com/google/go-github/v69/github"
)

// APIClient defines the interface for GitHub API operations used by a release.
// This interface enables dependency injection and facilitates black box testing
// by allowing mock implementations to replace the actual GitHub API client.
type APIClient interface {
	// GetFile returns the decoded content of path at ref and its blob SHA.
	GetFile(ctx context.Context, path, ref string) ([]byte, string, error)

	// UpdateFile commits content conditioned on the blob SHA and returns the commit SHA.
	UpdateFile(ctx context.Context, path, branch, message string, content []byte, sha string) (string, error)

	// LastCommitForPath returns the newest commit on branch touching path.
	LastCommitForPath(ctx context.Context, path, branch string) (*github.RepositoryCommit, error)

	// GetCommit returns the git commit object sha.
	GetCommit(ctx context.Context, sha string) (*github.Commit, error)

	// ListTags returns all tags, following pagination.
	ListTags(ctx context.Context) ([]*github.RepositoryTag, error)

	// TagExists reports whether the tag reference exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// CreateTag creates an annotated tag object.
	CreateTag(ctx context.Context, name, message, sha string) (*github.Tag, error)

	// CreateTagRef publishes a tag object under refs/tags.
	CreateTagRef(ctx context.Context, name, objectSHA string) (*github.Reference, error)

	// CreateBranch creates a branch pointing at sha.
	CreateBranch(ctx context.Context, name, sha string) (*github.Reference, error)

	// ListClosedPullRequests returns one page of closed pull requests into base.
	ListClosedPullRequests(ctx context.Context, base string, page int) ([]*github.PullRequest, int, error)

	// ListPullRequestsByHead returns the pull requests from head into base in any state.
	ListPullRequestsByHead(ctx context.Context, head, base string) ([]*github.PullRequest, error)

	// CreatePullRequest opens a pull request.
	CreatePullRequest(ctx context.Context, head, base, title, body string, maintainerCanModify bool) (*github.PullRequest, error)
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
