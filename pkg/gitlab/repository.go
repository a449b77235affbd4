package gitlab

import (
	"context"
	"encoding/base64"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GetFile returns the decoded content of path at ref and the id of the
// last commit that touched it.
func (c *Client) GetFile(ctx context.Context, path, ref string) ([]byte, string, error) {
	c.log.Debug(fmt.Sprintf("Fetching %s at %s", path, ref))

	file, _, err := c.client.RepositoryFiles.GetFile(c.projectID, path,
		&gitlab.GetFileOptions{Ref: gitlab.Ptr(ref)}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file %s: %w", path, err)
	}

	content := []byte(file.Content)
	if file.Encoding == encodingBase64 {
		content, err = base64.StdEncoding.DecodeString(file.Content)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode file %s: %w", path, err)
		}
	}

	c.log.Debug(fmt.Sprintf("Fetched %s, last commit: %s", path, file.LastCommitID))
	return content, file.LastCommitID, nil
}

// UpdateFile commits content to path on branch. GitLab rejects the commit
// when lastCommitID is no longer the last commit touching path.
// Returns the new commit id.
func (c *Client) UpdateFile(ctx context.Context, path, branch, message string, content []byte, lastCommitID string) (string, error) {
	c.log.Debug(fmt.Sprintf("Updating %s on %s from commit %s", path, branch, lastCommitID))

	commit, _, err := c.client.Commits.CreateCommit(c.projectID, &gitlab.CreateCommitOptions{
		Branch:        gitlab.Ptr(branch),
		CommitMessage: gitlab.Ptr(message),
		Actions: []*gitlab.CommitActionOptions{{
			Action:       gitlab.Ptr(gitlab.FileUpdate),
			FilePath:     gitlab.Ptr(path),
			Content:      gitlab.Ptr(base64.StdEncoding.EncodeToString(content)),
			Encoding:     gitlab.Ptr(encodingBase64),
			LastCommitID: gitlab.Ptr(lastCommitID),
		}},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", path, err)
	}

	c.log.Debug(fmt.Sprintf("Committed %s as %s", path, commit.ID))
	return commit.ID, nil
}

// LastCommitForPath returns the newest commit on branch touching path.
func (c *Client) LastCommitForPath(ctx context.Context, path, branch string) (*gitlab.Commit, error) {
	c.log.Debug(fmt.Sprintf("Looking up last commit for %s on %s", path, branch))

	commits, _, err := c.client.Commits.ListCommits(c.projectID, &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(branch),
		Path:        gitlab.Ptr(path),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s: %w", path, err)
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", errNoCommits, path, branch)
	}
	return commits[0], nil
}

// GetCommit returns the commit sha, resolved through the commit listing.
func (c *Client) GetCommit(ctx context.Context, sha string) (*gitlab.Commit, error) {
	commits, _, err := c.client.Commits.ListCommits(c.projectID, &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(sha),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: %s", errCommitMissing, sha)
	}
	return commits[0], nil
}

// CreateBranch creates branch name from ref.
func (c *Client) CreateBranch(ctx context.Context, name, ref string) (*gitlab.Branch, error) {
	c.log.Debug(fmt.Sprintf("Creating branch %s at %s", name, ref))

	branch, _, err := c.client.Branches.CreateBranch(c.projectID, &gitlab.CreateBranchOptions{
		Branch: gitlab.Ptr(name),
		Ref:    gitlab.Ptr(ref),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return branch, nil
}
