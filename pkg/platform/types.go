// Package platform defines the remote repository surface consumed by a
// release run and adapts the GitHub and GitLab clients to it.
//
// The [Provider] interface lists the remote operations of the workflow:
// manifest read and conditional write, tag lookup and creation, branch
// creation, closed pull request listing, and pull request creation. All
// failures are classified into the sentinels of errors.go so callers can
// tell a stale revision from a network blip.
//
// Use [NewProvider] to build the adapter for the configured platform:
//
//	provider, err := platform.NewProvider(cfg, token, logger)
//	file, err := provider.GetFile(ctx, "package.json", "main")
package platform

import "time"

// File is a manifest document fetched from a branch.
type File struct {
	Path     string
	Ref      string
	Content  []byte
	Revision string // opaque revision marker required by UpdateFile
}

// FileUpdate describes a conditional write of a file.
type FileUpdate struct {
	Path     string
	Branch   string
	Content  []byte
	Message  string
	Revision string // revision marker the write is conditioned on
}

// Commit identifies a commit and its message.
type Commit struct {
	SHA     string
	Message string
}

// Tag is a tag as listed by the remote.
type Tag struct {
	Name      string
	CommitSHA string
	CreatedAt time.Time // zero when the remote does not report it
}

// TagRequest asks for an annotated tag on a commit.
type TagRequest struct {
	Name      string
	Message   string
	CommitSHA string
}

// TagRef is a published tag reference.
type TagRef struct {
	Name      string
	Ref       string // fully qualified, refs/tags/<name>
	ObjectSHA string // annotated tag object
	CommitSHA string
}

// PullRequestSummary is a read projection of a remote pull request.
type PullRequestSummary struct {
	Number    int64
	Title     string
	URL       string
	Head      string
	MergedAt  time.Time // zero when closed without merging
	UpdatedAt time.Time
}

// Merged reports whether the pull request was merged.
func (p PullRequestSummary) Merged() bool {
	return !p.MergedAt.IsZero()
}

// ReleasePullRequest is the pull request opened by a release run.
type ReleasePullRequest struct {
	Head                string
	Base                string
	Title               string
	Body                string
	MaintainerCanModify bool
}

// PullRequestPage is one page of a closed pull request listing.
type PullRequestPage struct {
	PullRequests []PullRequestSummary
	NextPage     int // 0 when this is the last page
}
