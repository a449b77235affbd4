// Package gitlab provides GitLab API client operations.
package gitlab

import "errors"

// Error definitions for GitLab API operations.
var (
	errProjectNotSet = errors.New("project path must be set")
	errNoCommits     = errors.New("no commit touches path on branch")
	errCommitMissing = errors.New("commit not found")

	// Exported errors for testing and external use.
	ErrProjectNotSet = errProjectNotSet
	ErrNoCommits     = errNoCommits
	ErrCommitMissing = errCommitMissing
)
