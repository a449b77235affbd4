package release

import (
	"context"
	"fmt"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/pkg/manifest"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/bullets"
)

// CommitMessage is the message of the version bump commit.
func CommitMessage(version string) string {
	return "Bump version to " + version
}

// Manifest is a fetched manifest and the version it declares.
type Manifest struct {
	File    *platform.File
	Version string
}

// Updater performs the read-modify-write of the manifest on one branch.
type Updater struct {
	provider platform.Provider
	path     string
	branch   string
	log      *bullets.Logger
}

// NewUpdater creates an updater for the manifest at path on branch.
func NewUpdater(provider platform.Provider, path, branch string) *Updater {
	return &Updater{
		provider: provider,
		path:     path,
		branch:   branch,
		log:      logger.NoLogger(),
	}
}

// SetLogger sets the logger for the updater.
func (u *Updater) SetLogger(log *bullets.Logger) {
	u.log = log
}

// FetchRevision returns the current revision marker of the manifest.
func (u *Updater) FetchRevision(ctx context.Context) (string, error) {
	m, err := u.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return m.File.Revision, nil
}

// Fetch reads the manifest and its declared version.
func (u *Updater) Fetch(ctx context.Context) (*Manifest, error) {
	file, err := u.provider.GetFile(ctx, u.path, u.branch)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s on %s: %w", u.path, u.branch, err)
	}

	doc, err := manifest.Parse(u.path, file.Content)
	if err != nil {
		return nil, err
	}
	v, err := doc.Version()
	if err != nil {
		return nil, err
	}

	u.log.Debug(fmt.Sprintf("Manifest %s declares %s at revision %s", u.path, v, file.Revision))
	return &Manifest{File: file, Version: v}, nil
}

// Write commits content conditioned on expectedRevision and returns the new
// commit id. A stale revision fails with platform.ErrConflict.
func (u *Updater) Write(ctx context.Context, content []byte, version, expectedRevision string) (string, error) {
	commit, err := u.provider.UpdateFile(ctx, platform.FileUpdate{
		Path:     u.path,
		Branch:   u.branch,
		Content:  content,
		Message:  CommitMessage(version),
		Revision: expectedRevision,
	})
	if err != nil {
		return "", fmt.Errorf("failed to write %s on %s: %w", u.path, u.branch, err)
	}

	u.log.Debug(fmt.Sprintf("Manifest %s committed as %s", u.path, commit))
	return commit, nil
}

// Bump splices next into the fetched manifest and writes it back against
// the revision it was read at.
func (u *Updater) Bump(ctx context.Context, m *Manifest, next string) (string, error) {
	content, _, err := manifest.Rewrite(u.path, m.File.Content, next)
	if err != nil {
		return "", err
	}
	return u.Write(ctx, content, next, m.File.Revision)
}

// LastBumpCommit returns the commit that last touched the manifest.
func (u *Updater) LastBumpCommit(ctx context.Context) (*platform.Commit, error) {
	commit, err := u.provider.LastCommitForPath(ctx, u.path, u.branch)
	if err != nil {
		return nil, fmt.Errorf("failed to find last commit for %s: %w", u.path, err)
	}
	return commit, nil
}
