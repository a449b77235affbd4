package github

import "errors"

// Error definitions for GitHub API operations.
var (
	errRepositoryNotSet = errors.New("repository owner and name must be set")
	errNotAFile         = errors.New("path is not a file")
	errNoCommits        = errors.New("no commit touches path on branch")
	errInvalidBaseURL   = errors.New("invalid GitHub base URL")

	// ErrRepositoryNotSet is returned when owner or repository name is empty.
	ErrRepositoryNotSet = errRepositoryNotSet
	// ErrNotAFile is returned when a contents path resolves to a directory.
	ErrNotAFile = errNotAFile
	// ErrNoCommits is returned when no commit on the branch touches the path.
	ErrNoCommits = errNoCommits
	// ErrInvalidBaseURL is returned when the Enterprise base URL cannot be used.
	ErrInvalidBaseURL = errInvalidBaseURL
)
