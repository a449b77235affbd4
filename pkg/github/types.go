package github

import (
	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"
)

// Constants for GitHub API operations.
const (
	maxPerPage       = 100
	tagsRefPrefix    = "refs/tags/"
	branchRefPrefix  = "refs/heads/"
	objectTypeCommit = "commit"
	stateClosed      = "closed"
	stateAll         = "all"
	sortUpdated      = "updated"
	directionDesc    = "desc"
)

// Client represents a GitHub API client wrapper bound to one repository.
type Client struct {
	client *github.Client
	owner  string
	repo   string
	log    *bullets.Logger
}
