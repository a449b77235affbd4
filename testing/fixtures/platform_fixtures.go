package fixtures

import (
	"fmt"
	"time"

	"github.com/sgaunet/auto-release/pkg/platform"
)

// Test constants for platform fixtures.
const (
	DefaultOwner          = "acme"
	DefaultRepo           = "widget"
	DefaultIntegration    = "main"
	DefaultReleaseBranch  = "release"
	DefaultMarkerPrefix   = "[Release] "
	DefaultManifestPath   = "package.json"
	DefaultTagPrefix      = "v"
	defaultPullRequestURL = "https://example.com/acme/widget/pull/%d"
)

// Cutoff is the commit time of the tag released before the fixtures' pull requests.
var Cutoff = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// PullRequestURL returns the browser URL of pull request number.
func PullRequestURL(number int64) string {
	return fmt.Sprintf(defaultPullRequestURL, number)
}

// MergedPullRequest returns a pull request merged at mergedAt and last updated then.
func MergedPullRequest(number int64, title string, mergedAt time.Time) platform.PullRequestSummary {
	return platform.PullRequestSummary{
		Number:    number,
		Title:     title,
		URL:       PullRequestURL(number),
		MergedAt:  mergedAt,
		UpdatedAt: mergedAt,
	}
}

// ClosedPullRequest returns a pull request closed without merging.
func ClosedPullRequest(number int64, title string, updatedAt time.Time) platform.PullRequestSummary {
	return platform.PullRequestSummary{
		Number:    number,
		Title:     title,
		URL:       PullRequestURL(number),
		UpdatedAt: updatedAt,
	}
}

// PullRequestsAroundCutoff returns a listing, most recently updated first,
// where only "Add feature X" qualifies for a release after Cutoff.
func PullRequestsAroundCutoff() []platform.PullRequestSummary {
	return []platform.PullRequestSummary{
		MergedPullRequest(4, DefaultMarkerPrefix+"v1.2.3", Cutoff.Add(6*time.Minute)),
		MergedPullRequest(3, "Add feature X", Cutoff.Add(5*time.Minute)),
		ClosedPullRequest(2, "Abandoned experiment", Cutoff.Add(time.Minute)),
		MergedPullRequest(1, "Fix old bug", Cutoff.Add(-10*time.Minute)),
	}
}
