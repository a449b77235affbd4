package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	glclient "github.com/sgaunet/auto-release/pkg/gitlab"
	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

var errNoCommitDate = errors.New("commit carries no date")

// GitLabAdapter wraps a GitLab client to implement the [Provider] interface.
// Pull requests map to merge requests and the revision marker of a file is
// the id of the last commit that touched it.
type GitLabAdapter struct {
	client glclient.APIClient
	log    *bullets.Logger
}

// NewGitLabAdapter creates a new GitLab adapter.
func NewGitLabAdapter(client glclient.APIClient, log *bullets.Logger) *GitLabAdapter {
	return &GitLabAdapter{
		client: client,
		log:    log,
	}
}

// GetFile fetches path at ref.
func (a *GitLabAdapter) GetFile(ctx context.Context, path, ref string) (*File, error) {
	content, lastCommitID, err := a.client.GetFile(ctx, path, ref)
	if err != nil {
		return nil, classifyGitLab(err)
	}
	return &File{Path: path, Ref: ref, Content: content, Revision: lastCommitID}, nil
}

// UpdateFile commits the update conditioned on the file's last commit id.
func (a *GitLabAdapter) UpdateFile(ctx context.Context, update FileUpdate) (string, error) {
	id, err := a.client.UpdateFile(ctx, update.Path, update.Branch, update.Message, update.Content, update.Revision)
	if err != nil {
		return "", classifyGitLab(err)
	}
	return id, nil
}

// LastCommitForPath returns the newest commit touching path on branch.
func (a *GitLabAdapter) LastCommitForPath(ctx context.Context, path, branch string) (*Commit, error) {
	commit, err := a.client.LastCommitForPath(ctx, path, branch)
	if err != nil {
		if errors.Is(err, glclient.ErrNoCommits) {
			return nil, notFound(err)
		}
		return nil, classifyGitLab(err)
	}
	return &Commit{SHA: commit.ID, Message: commit.Message}, nil
}

// ListTags returns all tags, most recently updated first.
func (a *GitLabAdapter) ListTags(ctx context.Context) ([]Tag, error) {
	glTags, err := a.client.ListTags(ctx)
	if err != nil {
		return nil, classifyGitLab(err)
	}

	tags := make([]Tag, 0, len(glTags))
	for _, t := range glTags {
		tag := Tag{Name: t.Name}
		if t.Commit != nil {
			tag.CommitSHA = t.Commit.ID
		}
		switch {
		case t.CreatedAt != nil:
			tag.CreatedAt = t.CreatedAt.UTC()
		case t.Commit != nil && t.Commit.CommittedDate != nil:
			// lightweight tags carry no creation date
			tag.CreatedAt = t.Commit.CommittedDate.UTC()
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CommitTime returns the authored date of sha, or its committed date when
// the authored date is missing.
func (a *GitLabAdapter) CommitTime(ctx context.Context, sha string) (time.Time, error) {
	commit, err := a.client.GetCommit(ctx, sha)
	if err != nil {
		if errors.Is(err, glclient.ErrCommitMissing) {
			return time.Time{}, notFound(err)
		}
		return time.Time{}, classifyGitLab(err)
	}
	switch {
	case commit.AuthoredDate != nil:
		return commit.AuthoredDate.UTC(), nil
	case commit.CommittedDate != nil:
		return commit.CommittedDate.UTC(), nil
	default:
		return time.Time{}, notFound(fmt.Errorf("%w: %s", errNoCommitDate, sha))
	}
}

// TagExists reports whether tag name exists.
func (a *GitLabAdapter) TagExists(ctx context.Context, name string) (bool, error) {
	exists, err := a.client.TagExists(ctx, name)
	if err != nil {
		return false, classifyGitLab(err)
	}
	return exists, nil
}

// CreateTag creates the annotated tag and its reference in one request.
func (a *GitLabAdapter) CreateTag(ctx context.Context, req TagRequest) (*TagRef, error) {
	tag, err := a.client.CreateTag(ctx, req.Name, req.Message, req.CommitSHA)
	if err != nil {
		return nil, classifyGitLab(err)
	}

	ref := &TagRef{
		Name:      req.Name,
		Ref:       "refs/tags/" + req.Name,
		ObjectSHA: tag.Target,
		CommitSHA: req.CommitSHA,
	}
	if tag.Commit != nil {
		ref.CommitSHA = tag.Commit.ID
	}
	return ref, nil
}

// CreateBranch creates a branch at sha.
func (a *GitLabAdapter) CreateBranch(ctx context.Context, name, sha string) error {
	if _, err := a.client.CreateBranch(ctx, name, sha); err != nil {
		return classifyGitLab(err)
	}
	return nil
}

// ListClosedPullRequests returns one page of merged merge requests into base.
// GitLab keeps merged and closed states apart, so every entry is merged.
func (a *GitLabAdapter) ListClosedPullRequests(ctx context.Context, base string, page int) (*PullRequestPage, error) {
	mrs, next, err := a.client.ListMergedMergeRequests(ctx, base, page)
	if err != nil {
		return nil, classifyGitLab(err)
	}

	return &PullRequestPage{PullRequests: gitlabSummaries(mrs), NextPage: next}, nil
}

// ListPullRequests returns the merge requests from head into base in any state.
func (a *GitLabAdapter) ListPullRequests(ctx context.Context, head, base string) ([]PullRequestSummary, error) {
	mrs, err := a.client.ListMergeRequestsBySource(ctx, head, base)
	if err != nil {
		return nil, classifyGitLab(err)
	}
	return gitlabSummaries(mrs), nil
}

// CreatePullRequest opens the release merge request and returns its URL.
func (a *GitLabAdapter) CreatePullRequest(ctx context.Context, pr ReleasePullRequest) (string, error) {
	mr, err := a.client.CreateMergeRequest(ctx, pr.Head, pr.Base, pr.Title, pr.Body, pr.MaintainerCanModify)
	if err != nil {
		return "", classifyGitLab(err)
	}
	return mr.WebURL, nil
}

// PlatformName returns "GitLab".
func (a *GitLabAdapter) PlatformName() string {
	return "GitLab"
}

func gitlabSummaries(mrs []*gitlab.BasicMergeRequest) []PullRequestSummary {
	summaries := make([]PullRequestSummary, len(mrs))
	for i, mr := range mrs {
		summary := PullRequestSummary{
			Number: int64(mr.IID),
			Title:  mr.Title,
			URL:    mr.WebURL,
			Head:   mr.SourceBranch,
		}
		if mr.MergedAt != nil {
			summary.MergedAt = mr.MergedAt.UTC()
		}
		if mr.UpdatedAt != nil {
			summary.UpdatedAt = mr.UpdatedAt.UTC()
		}
		summaries[i] = summary
	}
	return summaries
}

// Ensure GitLabAdapter implements Provider interface at compile time.
var _ Provider = (*GitLabAdapter)(nil)
