// Package notes formats merged pull requests into a release change log.
package notes

import (
	"strings"

	"github.com/sgaunet/auto-release/pkg/platform"
)

const (
	// Heading opens every change log.
	Heading = "# Change log"

	// Placeholder replaces the bullet list when nothing was merged.
	Placeholder = "No merged pull requests were found since the last release. Please update this change log manually."
)

// Compose returns the change log body for prs, in the order given.
func Compose(prs []platform.PullRequestSummary) string {
	if len(prs) == 0 {
		return Heading + "\n\n" + Placeholder
	}

	lines := make([]string, 0, len(prs)+1)
	lines = append(lines, Heading)
	for _, pr := range prs {
		lines = append(lines, Bullet(pr))
	}
	return strings.Join(lines, "\n")
}

// Bullet renders one change log entry.
func Bullet(pr platform.PullRequestSummary) string {
	return "- " + pr.Title + ": " + pr.URL
}
