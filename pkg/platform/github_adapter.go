package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v69/github"
	ghclient "github.com/sgaunet/auto-release/pkg/github"
	"github.com/sgaunet/bullets"
)

// GitHubAdapter wraps a GitHub client to implement the [Provider] interface.
// It translates between the platform-agnostic types and the GitHub-specific API.
type GitHubAdapter struct {
	client ghclient.APIClient
	log    *bullets.Logger
}

// NewGitHubAdapter creates a new GitHub adapter.
func NewGitHubAdapter(client ghclient.APIClient, log *bullets.Logger) *GitHubAdapter {
	return &GitHubAdapter{
		client: client,
		log:    log,
	}
}

// GetFile fetches path at ref. The revision marker is the blob SHA.
func (a *GitHubAdapter) GetFile(ctx context.Context, path, ref string) (*File, error) {
	content, sha, err := a.client.GetFile(ctx, path, ref)
	if err != nil {
		if errors.Is(err, ghclient.ErrNotAFile) {
			return nil, notFound(err)
		}
		return nil, classifyGitHub(err)
	}
	return &File{Path: path, Ref: ref, Content: content, Revision: sha}, nil
}

// UpdateFile commits the update conditioned on the blob SHA.
func (a *GitHubAdapter) UpdateFile(ctx context.Context, update FileUpdate) (string, error) {
	sha, err := a.client.UpdateFile(ctx, update.Path, update.Branch, update.Message, update.Content, update.Revision)
	if err != nil {
		return "", classifyGitHub(err)
	}
	return sha, nil
}

// LastCommitForPath returns the newest commit touching path on branch.
func (a *GitHubAdapter) LastCommitForPath(ctx context.Context, path, branch string) (*Commit, error) {
	commit, err := a.client.LastCommitForPath(ctx, path, branch)
	if err != nil {
		if errors.Is(err, ghclient.ErrNoCommits) {
			return nil, notFound(err)
		}
		return nil, classifyGitHub(err)
	}
	return &Commit{SHA: commit.GetSHA(), Message: commit.GetCommit().GetMessage()}, nil
}

// ListTags returns all tags in listing order.
func (a *GitHubAdapter) ListTags(ctx context.Context) ([]Tag, error) {
	ghTags, err := a.client.ListTags(ctx)
	if err != nil {
		return nil, classifyGitHub(err)
	}

	tags := make([]Tag, len(ghTags))
	for i, t := range ghTags {
		tags[i] = Tag{Name: t.GetName(), CommitSHA: t.GetCommit().GetSHA()}
	}
	return tags, nil
}

// CommitTime returns the author date of sha.
func (a *GitHubAdapter) CommitTime(ctx context.Context, sha string) (time.Time, error) {
	commit, err := a.client.GetCommit(ctx, sha)
	if err != nil {
		return time.Time{}, classifyGitHub(err)
	}
	return commit.GetAuthor().GetDate().UTC(), nil
}

// TagExists reports whether refs/tags/name exists.
func (a *GitHubAdapter) TagExists(ctx context.Context, name string) (bool, error) {
	exists, err := a.client.TagExists(ctx, name)
	if err != nil {
		return false, classifyGitHub(err)
	}
	return exists, nil
}

// CreateTag creates the annotated tag object, then publishes refs/tags/<name>.
// When publishing fails the tag object is left unreferenced.
func (a *GitHubAdapter) CreateTag(ctx context.Context, req TagRequest) (*TagRef, error) {
	tag, err := a.client.CreateTag(ctx, req.Name, req.Message, req.CommitSHA)
	if err != nil {
		return nil, classifyGitHub(err)
	}
	a.log.Debug(fmt.Sprintf("Tag object %s created for %s", tag.GetSHA(), req.Name))

	ref, err := a.client.CreateTagRef(ctx, req.Name, tag.GetSHA())
	if err != nil {
		return nil, fmt.Errorf("tag object %s left unreferenced: %w", tag.GetSHA(), classifyGitHub(err))
	}

	return &TagRef{
		Name:      req.Name,
		Ref:       ref.GetRef(),
		ObjectSHA: tag.GetSHA(),
		CommitSHA: req.CommitSHA,
	}, nil
}

// CreateBranch creates a branch at sha.
func (a *GitHubAdapter) CreateBranch(ctx context.Context, name, sha string) error {
	if _, err := a.client.CreateBranch(ctx, name, sha); err != nil {
		return classifyGitHub(err)
	}
	return nil
}

// ListClosedPullRequests returns one page of closed pull requests into base.
func (a *GitHubAdapter) ListClosedPullRequests(ctx context.Context, base string, page int) (*PullRequestPage, error) {
	prs, next, err := a.client.ListClosedPullRequests(ctx, base, page)
	if err != nil {
		return nil, classifyGitHub(err)
	}

	summaries := make([]PullRequestSummary, len(prs))
	for i, pr := range prs {
		summaries[i] = githubSummary(pr)
	}
	return &PullRequestPage{PullRequests: summaries, NextPage: next}, nil
}

// ListPullRequests returns the pull requests from head into base in any state.
func (a *GitHubAdapter) ListPullRequests(ctx context.Context, head, base string) ([]PullRequestSummary, error) {
	prs, err := a.client.ListPullRequestsByHead(ctx, head, base)
	if err != nil {
		return nil, classifyGitHub(err)
	}

	summaries := make([]PullRequestSummary, len(prs))
	for i, pr := range prs {
		summaries[i] = githubSummary(pr)
	}
	return summaries, nil
}

// CreatePullRequest opens the release pull request and returns its URL.
func (a *GitHubAdapter) CreatePullRequest(ctx context.Context, pr ReleasePullRequest) (string, error) {
	created, err := a.client.CreatePullRequest(ctx, pr.Head, pr.Base, pr.Title, pr.Body, pr.MaintainerCanModify)
	if err != nil {
		return "", classifyGitHub(err)
	}
	return created.GetHTMLURL(), nil
}

// PlatformName returns "GitHub".
func (a *GitHubAdapter) PlatformName() string {
	return "GitHub"
}

func githubSummary(pr *github.PullRequest) PullRequestSummary {
	return PullRequestSummary{
		Number:    int64(pr.GetNumber()),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		Head:      pr.GetHead().GetRef(),
		MergedAt:  pr.GetMergedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

// Ensure GitHubAdapter implements Provider interface at compile time.
var _ Provider = (*GitHubAdapter)(nil)
