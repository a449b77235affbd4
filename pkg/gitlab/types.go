package gitlab

import (
	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Constants for GitLab API operations.
const (
	maxPerPage     = 100
	stateMerged    = "merged"
	stateAll       = "all"
	orderUpdated   = "updated"
	orderUpdatedAt = "updated_at"
	sortDesc       = "desc"
	encodingBase64 = "base64"
)

// Client represents a GitLab API client wrapper bound to one project.
type Client struct {
	client    *gitlab.Client
	projectID string // full project path, e.g. group/subgroup/project
	log       *bullets.Logger
}
