// Package github provides GitHub API client operations.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/security"
	"github.com/sgaunet/bullets"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client authenticating with token.
// An empty token yields an anonymous client; the API then answers with
// an authentication failure on the first write.
// baseURL selects a GitHub Enterprise instance when not empty.
func NewClient(token security.SecureToken, baseURL string) (*Client, error) {
	var httpClient *http.Client
	if !token.IsEmpty() {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token.Value()},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidBaseURL, err)
		}
	}

	return &Client{
		client: client,
		log:    logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the GitHub client.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// SetRepository binds the client to owner/repo.
func (c *Client) SetRepository(owner, repo string) error {
	if owner == "" || repo == "" {
		return errRepositoryNotSet
	}
	c.owner = owner
	c.repo = repo
	c.log.Debug(fmt.Sprintf("Setting GitHub repository: %s/%s", owner, repo))
	return nil
}

// Repository returns the bound owner and repository name.
func (c *Client) Repository() (string, string) {
	return c.owner, c.repo
}
