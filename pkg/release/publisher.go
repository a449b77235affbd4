package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/bullets"
)

// snapshotBranchPrefix prefixes the branch pinned at a release tag.
const snapshotBranchPrefix = "release/"

// Publisher opens the release pull request.
type Publisher struct {
	provider          platform.Provider
	markerPrefix      string
	headStrategy      string
	integrationBranch string
	log               *bullets.Logger
}

// NewPublisher creates a publisher. headStrategy is config.HeadSnapshot
// or config.HeadIntegration.
func NewPublisher(provider platform.Provider, markerPrefix, headStrategy, integrationBranch string) *Publisher {
	return &Publisher{
		provider:          provider,
		markerPrefix:      markerPrefix,
		headStrategy:      headStrategy,
		integrationBranch: integrationBranch,
		log:               logger.NoLogger(),
	}
}

// SetLogger sets the logger for the publisher.
func (p *Publisher) SetLogger(log *bullets.Logger) {
	p.log = log
}

// Title returns the release pull request title for tag.
func (p *Publisher) Title(tagName string) string {
	return p.markerPrefix + tagName
}

// SnapshotBranch returns the branch pinned at tag.
func SnapshotBranch(tagName string) string {
	return snapshotBranchPrefix + tagName
}

// Head returns the head ref of the release pull request for tag. With the
// snapshot strategy a branch is created at the tagged commit; a branch left
// by an interrupted run is reused.
func (p *Publisher) Head(ctx context.Context, tag *platform.TagRef) (string, error) {
	if p.headStrategy == config.HeadIntegration {
		return p.integrationBranch, nil
	}

	branch := SnapshotBranch(tag.Name)
	err := p.provider.CreateBranch(ctx, branch, tag.CommitSHA)
	switch {
	case err == nil:
		p.log.Debug(fmt.Sprintf("Snapshot branch %s created at %s", branch, tag.CommitSHA))
	case errors.Is(err, platform.ErrConflict):
		p.log.Warnf("Snapshot branch %s already exists, reusing it", branch)
	default:
		return "", fmt.Errorf("failed to create snapshot branch %s: %w", branch, err)
	}
	return branch, nil
}

// Published reports whether a release pull request for tag into base
// exists in any state. Both head strategies are checked so a change of
// strategy between runs still finds it.
func (p *Publisher) Published(ctx context.Context, tagName, base string) (bool, error) {
	title := p.Title(tagName)
	for _, head := range []string{SnapshotBranch(tagName), p.integrationBranch} {
		prs, err := p.provider.ListPullRequests(ctx, head, base)
		if err != nil {
			return false, fmt.Errorf("failed to list pull requests from %s: %w", head, err)
		}
		for _, pr := range prs {
			if head != p.integrationBranch || pr.Title == title {
				p.log.Debug(fmt.Sprintf("Release pull request for %s: #%d %s", tagName, pr.Number, pr.URL))
				return true, nil
			}
		}
	}
	return false, nil
}

// Open opens a pull request from head into base and returns its URL.
// Maintainers may push to it. An open pull request for the same head and
// base fails with platform.ErrConflict.
func (p *Publisher) Open(ctx context.Context, head, base, title, body string) (string, error) {
	url, err := p.provider.CreatePullRequest(ctx, platform.ReleasePullRequest{
		Head:                head,
		Base:                base,
		Title:               title,
		Body:                body,
		MaintainerCanModify: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open pull request %s -> %s: %w", head, base, err)
	}
	return url, nil
}
