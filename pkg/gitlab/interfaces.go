package gitlab

import (
	"context"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// APIClient defines the interface for GitLab API operations used by a release.
// This interface enables dependency injection and facilitates black box testing
// by allowing mock implementations to replace the actual GitLab API client.
type APIClient interface {
	// GetFile returns the decoded content of path at ref and its last commit id.
	GetFile(ctx context.Context, path, ref string) ([]byte, string, error)

	// UpdateFile commits content conditioned on the last commit id.
	UpdateFile(ctx context.Context, path, branch, message string, content []byte, lastCommitID string) (string, error)

	// LastCommitForPath returns the newest commit on branch touching path.
	LastCommitForPath(ctx context.Context, path, branch string) (*gitlab.Commit, error)

	// GetCommit returns a commit by sha.
	GetCommit(ctx context.Context, sha string) (*gitlab.Commit, error)

	// ListTags returns all tags, most recently updated first.
	ListTags(ctx context.Context) ([]*gitlab.Tag, error)

	// TagExists reports whether the tag exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// CreateTag creates an annotated tag and its reference.
	CreateTag(ctx context.Context, name, message, ref string) (*gitlab.Tag, error)

	// CreateBranch creates a branch from ref.
	CreateBranch(ctx context.Context, name, ref string) (*gitlab.Branch, error)

	// ListMergedMergeRequests returns one page of merged merge requests into branch.
	ListMergedMergeRequests(ctx context.Context, branch string, page int) ([]*gitlab.BasicMergeRequest, int, error)

	// ListMergeRequestsBySource returns the merge requests from source into target in any state.
	ListMergeRequestsBySource(ctx context.Context, source, target string) ([]*gitlab.BasicMergeRequest, error)

	// CreateMergeRequest opens a merge request.
	CreateMergeRequest(
		ctx context.Context,
		source, target, title, description string,
		allowCollaboration bool,
	) (*gitlab.MergeRequest, error)
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
