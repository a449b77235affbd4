// Package urlutil extracts repository coordinates from git remote URLs.
//
// It handles three URL formats:
//   - HTTPS: https://github.com/owner/repo(.git)
//   - SSH colon: git@github.com:owner/repo(.git)
//   - SSH protocol: ssh://git@github.com/owner/repo(.git)
package urlutil

import "strings"

// minPathParts is the minimum number of components of an owner/repo path.
const minPathParts = 2

// RepositoryPath returns everything after the host of a git remote URL,
// with the .git suffix and surrounding slashes removed.
// Returns "" when the URL carries no path.
//
// Examples:
//
//	RepositoryPath("git@github.com:owner/repo.git") → "owner/repo"
//	RepositoryPath("https://gitlab.com/group/subgroup/project") → "group/subgroup/project"
func RepositoryPath(remoteURL string) string {
	u := strings.TrimSpace(remoteURL)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")

	var path string
	switch {
	case strings.Contains(u, "://"):
		rest := u[strings.Index(u, "://")+len("://"):]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return ""
		}
		path = rest[slash+1:]
	case strings.Contains(u, "@") && strings.Contains(u, ":"):
		// scp-like syntax: user@host:path
		path = u[strings.Index(u, ":")+1:]
	default:
		return ""
	}

	return strings.Trim(path, "/")
}

// SplitOwnerRepo splits a repository path into its namespace and name.
// Nested GitLab groups stay in the owner part.
func SplitOwnerRepo(path string) (string, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < minPathParts {
		return "", "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", "", false
		}
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], true
}

// Host returns the host part of a git remote URL, or "" if none is found.
func Host(remoteURL string) string {
	u := strings.TrimSpace(remoteURL)
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+len("://"):]
		if slash := strings.Index(u, "/"); slash >= 0 {
			u = u[:slash]
		}
	} else if colon := strings.Index(u, ":"); colon >= 0 && strings.Contains(u[:colon], "@") {
		u = u[:colon]
	} else {
		return ""
	}
	if at := strings.LastIndex(u, "@"); at >= 0 {
		u = u[at+1:]
	}
	if colon := strings.Index(u, ":"); colon >= 0 {
		u = u[:colon]
	}
	return strings.ToLower(u)
}
