package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v69/github"
)

// GetFile returns the decoded content of path at ref and its blob SHA.
func (c *Client) GetFile(ctx context.Context, path, ref string) ([]byte, string, error) {
	c.log.Debug(fmt.Sprintf("Fetching %s at %s", path, ref))

	fc, _, _, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get contents of %s: %w", path, err)
	}
	if fc == nil {
		return nil, "", fmt.Errorf("%w: %s", errNotAFile, path)
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode contents of %s: %w", path, err)
	}

	c.log.Debug(fmt.Sprintf("Fetched %s, sha: %s", path, fc.GetSHA()))
	return []byte(content), fc.GetSHA(), nil
}

// UpdateFile commits content to path on branch. The write is rejected by
// GitHub unless sha is the current blob SHA of path. Returns the commit SHA.
func (c *Client) UpdateFile(ctx context.Context, path, branch, message string, content []byte, sha string) (string, error) {
	c.log.Debug(fmt.Sprintf("Updating %s on %s from blob %s", path, branch, sha))

	res, _, err := c.client.Repositories.UpdateFile(ctx, c.owner, c.repo, path,
		&github.RepositoryContentFileOptions{
			Message: github.Ptr(message),
			Content: content,
			SHA:     github.Ptr(sha),
			Branch:  github.Ptr(branch),
		})
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", path, err)
	}

	commitSHA := res.Commit.GetSHA()
	c.log.Debug(fmt.Sprintf("Committed %s as %s", path, commitSHA))
	return commitSHA, nil
}

// LastCommitForPath returns the newest commit on branch touching path.
func (c *Client) LastCommitForPath(ctx context.Context, path, branch string) (*github.RepositoryCommit, error) {
	c.log.Debug(fmt.Sprintf("Looking up last commit for %s on %s", path, branch))

	commits, _, err := c.client.Repositories.ListCommits(ctx, c.owner, c.repo, &github.CommitsListOptions{
		SHA:         branch,
		Path:        path,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s: %w", path, err)
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", errNoCommits, path, branch)
	}
	return commits[0], nil
}

// GetCommit returns the git commit object sha.
func (c *Client) GetCommit(ctx context.Context, sha string) (*github.Commit, error) {
	commit, _, err := c.client.Git.GetCommit(ctx, c.owner, c.repo, sha)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	return commit, nil
}
