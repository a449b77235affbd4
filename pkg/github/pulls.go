package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v69/github"
)

// ListClosedPullRequests returns one page of closed pull requests targeting
// base, most recently updated first, and the next page number (0 when last).
func (c *Client) ListClosedPullRequests(ctx context.Context, base string, page int) ([]*github.PullRequest, int, error) {
	c.log.Debug(fmt.Sprintf("Listing closed pull requests into %s, page %d", base, page))

	prs, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		State:     stateClosed,
		Base:      base,
		Sort:      sortUpdated,
		Direction: directionDesc,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: maxPerPage,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pull requests: %w", err)
	}

	next := 0
	if resp != nil {
		next = resp.NextPage
	}
	return prs, next, nil
}

// ListPullRequestsByHead returns the pull requests from head into base in
// any state, most recently updated first.
func (c *Client) ListPullRequestsByHead(ctx context.Context, head, base string) ([]*github.PullRequest, error) {
	c.log.Debug(fmt.Sprintf("Listing pull requests from %s into %s", head, base))

	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		State:       stateAll,
		Head:        c.owner + ":" + head,
		Base:        base,
		Sort:        sortUpdated,
		Direction:   directionDesc,
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests from %s: %w", head, err)
	}
	return prs, nil
}

// CreatePullRequest opens a pull request from head into base.
func (c *Client) CreatePullRequest(
	ctx context.Context,
	head, base, title, body string,
	maintainerCanModify bool,
) (*github.PullRequest, error) {
	c.log.Debug(fmt.Sprintf("Creating pull request from %s to %s", head, base))

	pr, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title:               github.Ptr(title),
		Head:                github.Ptr(head),
		Base:                github.Ptr(base),
		Body:                github.Ptr(body),
		MaintainerCanModify: github.Ptr(maintainerCanModify),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Pull request created: #%d", pr.GetNumber()))
	return pr, nil
}
