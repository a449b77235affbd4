package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v69/github"
)

// ListTags returns all tags of the repository, following pagination.
func (c *Client) ListTags(ctx context.Context) ([]*github.RepositoryTag, error) {
	opts := &github.ListOptions{PerPage: maxPerPage}
	var all []*github.RepositoryTag

	for {
		tags, resp, err := c.client.Repositories.ListTags(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		all = append(all, tags...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug(fmt.Sprintf("Tags retrieved, count: %d", len(all)))
	return all, nil
}

// TagExists reports whether refs/tags/name exists.
func (c *Client) TagExists(ctx context.Context, name string) (bool, error) {
	_, resp, err := c.client.Git.GetRef(ctx, c.owner, c.repo, "tags/"+name)
	if err == nil {
		return true, nil
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to get tag reference %s: %w", name, err)
}

// CreateTag creates an annotated tag object pointing at commit sha.
// The tag is not visible until CreateTagRef publishes it.
func (c *Client) CreateTag(ctx context.Context, name, message, sha string) (*github.Tag, error) {
	c.log.Debug(fmt.Sprintf("Creating tag object %s on %s", name, sha))

	tag, _, err := c.client.Git.CreateTag(ctx, c.owner, c.repo, &github.Tag{
		Tag:     github.Ptr(name),
		Message: github.Ptr(message),
		Object: &github.GitObject{
			Type: github.Ptr(objectTypeCommit),
			SHA:  github.Ptr(sha),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag object %s: %w", name, err)
	}
	return tag, nil
}

// CreateTagRef publishes refs/tags/name pointing at the tag object objectSHA.
func (c *Client) CreateTagRef(ctx context.Context, name, objectSHA string) (*github.Reference, error) {
	return c.createRef(ctx, tagsRefPrefix+name, objectSHA)
}

// CreateBranch creates refs/heads/name pointing at commit sha.
func (c *Client) CreateBranch(ctx context.Context, name, sha string) (*github.Reference, error) {
	return c.createRef(ctx, branchRefPrefix+name, sha)
}

func (c *Client) createRef(ctx context.Context, ref, sha string) (*github.Reference, error) {
	c.log.Debug(fmt.Sprintf("Creating reference %s at %s", ref, sha))

	created, _, err := c.client.Git.CreateRef(ctx, c.owner, c.repo, &github.Reference{
		Ref:    github.Ptr(ref),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reference %s: %w", ref, err)
	}
	return created, nil
}
