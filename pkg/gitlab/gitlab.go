package gitlab

import (
	"fmt"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/security"
	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// NewClient creates a new GitLab client authenticating with token.
// baseURL selects a self-managed instance when not empty.
// Requests are never retried: a failed call aborts the release.
func NewClient(token security.SecureToken, baseURL string) (*Client, error) {
	opts := []gitlab.ClientOptionFunc{gitlab.WithoutRetries()}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token.Value(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{
		client: client,
		log:    logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the GitLab client.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// SetProject binds the client to the project at path (namespace/name).
func (c *Client) SetProject(path string) error {
	if path == "" {
		return errProjectNotSet
	}
	c.projectID = path
	c.log.Debug("Setting GitLab project: " + path)
	return nil
}

// Project returns the bound project path.
func (c *Client) Project() string {
	return c.projectID
}
