package gitlab

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// ListMergedMergeRequests returns one page of merged merge requests
// targeting branch, most recently updated first, and the next page number
// (0 when last).
func (c *Client) ListMergedMergeRequests(ctx context.Context, branch string, page int) ([]*gitlab.BasicMergeRequest, int, error) {
	c.log.Debug(fmt.Sprintf("Listing merged merge requests into %s, page %d", branch, page))

	mrs, resp, err := c.client.MergeRequests.ListProjectMergeRequests(c.projectID, &gitlab.ListProjectMergeRequestsOptions{
		ListOptions: gitlab.ListOptions{
			Page:    page,
			PerPage: maxPerPage,
		},
		State:        gitlab.Ptr(stateMerged),
		TargetBranch: gitlab.Ptr(branch),
		OrderBy:      gitlab.Ptr(orderUpdatedAt),
		Sort:         gitlab.Ptr(sortDesc),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list merge requests: %w", err)
	}

	next := 0
	if resp != nil {
		next = resp.NextPage
	}
	return mrs, next, nil
}

// ListMergeRequestsBySource returns the merge requests from source into
// target in any state, most recently updated first.
func (c *Client) ListMergeRequestsBySource(ctx context.Context, source, target string) ([]*gitlab.BasicMergeRequest, error) {
	c.log.Debug(fmt.Sprintf("Listing merge requests from %s into %s", source, target))

	mrs, _, err := c.client.MergeRequests.ListProjectMergeRequests(c.projectID, &gitlab.ListProjectMergeRequestsOptions{
		ListOptions:  gitlab.ListOptions{PerPage: maxPerPage},
		State:        gitlab.Ptr(stateAll),
		SourceBranch: gitlab.Ptr(source),
		TargetBranch: gitlab.Ptr(target),
		OrderBy:      gitlab.Ptr(orderUpdatedAt),
		Sort:         gitlab.Ptr(sortDesc),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list merge requests from %s: %w", source, err)
	}
	return mrs, nil
}

// CreateMergeRequest opens a merge request from source into target.
func (c *Client) CreateMergeRequest(
	ctx context.Context,
	source, target, title, description string,
	allowCollaboration bool,
) (*gitlab.MergeRequest, error) {
	c.log.Debug(fmt.Sprintf("Creating merge request from %s to %s", source, target))

	mr, _, err := c.client.MergeRequests.CreateMergeRequest(c.projectID, &gitlab.CreateMergeRequestOptions{
		Title:              gitlab.Ptr(title),
		Description:        gitlab.Ptr(description),
		SourceBranch:       gitlab.Ptr(source),
		TargetBranch:       gitlab.Ptr(target),
		AllowCollaboration: gitlab.Ptr(allowCollaboration),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Merge request created: !%d", mr.IID))
	return mr, nil
}
