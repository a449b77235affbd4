package gitlab

import (
	"context"
	"errors"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// ListTags returns all tags, most recently updated first, following pagination.
func (c *Client) ListTags(ctx context.Context) ([]*gitlab.Tag, error) {
	opts := &gitlab.ListTagsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: maxPerPage},
		OrderBy:     gitlab.Ptr(orderUpdated),
		Sort:        gitlab.Ptr(sortDesc),
	}
	var all []*gitlab.Tag

	for {
		tags, resp, err := c.client.Tags.ListTags(c.projectID, opts, gitlab.WithContext(ctx))
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

// TagExists reports whether tag name exists.
func (c *Client) TagExists(ctx context.Context, name string) (bool, error) {
	_, _, err := c.client.Tags.GetTag(c.projectID, name, gitlab.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gitlab.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get tag %s: %w", name, err)
}

// CreateTag creates an annotated tag name on ref. GitLab creates the tag
// object and its reference in one request.
func (c *Client) CreateTag(ctx context.Context, name, message, ref string) (*gitlab.Tag, error) {
	c.log.Debug(fmt.Sprintf("Creating tag %s on %s", name, ref))

	tag, _, err := c.client.Tags.CreateTag(c.projectID, &gitlab.CreateTagOptions{
		TagName: gitlab.Ptr(name),
		Ref:     gitlab.Ptr(ref),
		Message: gitlab.Ptr(message),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return tag, nil
}
