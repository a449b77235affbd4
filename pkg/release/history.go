package release

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/timeutil"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/version"
	"github.com/sgaunet/bullets"
	"golang.org/x/sync/errgroup"
)

const firstPage = 1

// Release is a published release tag.
type Release struct {
	Tag       platform.Tag
	Version   string
	Timestamp time.Time // author time of the tagged commit
}

// Snapshot is the release history read before any mutation.
type Snapshot struct {
	Last    *Release // nil before the first release
	Cutoff  time.Time
	Merged  []platform.PullRequestSummary
	Scanned int // closed pull requests inspected
}

// History reads release tags and merged pull requests.
type History struct {
	provider     platform.Provider
	base         string
	markerPrefix string
	tagPrefix    string
	epoch        time.Time
	log          *bullets.Logger
}

// NewHistory creates a history reader for pull requests merged into base.
// epoch is the cutoff used when no release tag exists.
func NewHistory(provider platform.Provider, base, markerPrefix, tagPrefix string, epoch time.Time) *History {
	return &History{
		provider:     provider,
		base:         base,
		markerPrefix: markerPrefix,
		tagPrefix:    tagPrefix,
		epoch:        epoch,
		log:          logger.NoLogger(),
	}
}

// SetLogger sets the logger for the history reader.
func (h *History) SetLogger(log *bullets.Logger) {
	h.log = log
}

// LastRelease returns the latest release tag, or nil when none exists.
// Release tags carry the tag prefix followed by a semantic version. The
// latest is the most recently created one when the remote dates every
// release tag, and the highest version otherwise.
func (h *History) LastRelease(ctx context.Context) (*Release, error) {
	tags, err := h.releaseTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		h.log.Debug("No release tag found")
		return nil, nil
	}
	return h.release(ctx, tags[0])
}

// ReleaseBefore returns the release that preceded the release tag name, or
// nil when name is the first release or not a release tag.
func (h *History) ReleaseBefore(ctx context.Context, name string) (*Release, error) {
	tags, err := h.releaseTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].tag.Name == name && i+1 < len(tags) {
			return h.release(ctx, tags[i+1])
		}
	}
	return nil, nil
}

type releaseTag struct {
	tag     platform.Tag
	version *semver.Version
}

// releaseTags lists the release tags, latest first.
func (h *History) releaseTags(ctx context.Context) ([]releaseTag, error) {
	tags, err := h.provider.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	releases := make([]releaseTag, 0, len(tags))
	dated := true
	for _, t := range tags {
		raw, ok := version.FromTag(h.tagPrefix, t.Name)
		if !ok {
			continue
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		releases = append(releases, releaseTag{tag: t, version: v})
		dated = dated && !t.CreatedAt.IsZero()
	}

	sort.SliceStable(releases, func(i, j int) bool {
		a, b := releases[i], releases[j]
		if dated && !a.tag.CreatedAt.Equal(b.tag.CreatedAt) {
			return a.tag.CreatedAt.After(b.tag.CreatedAt)
		}
		return a.version.GreaterThan(b.version)
	})
	h.log.Debug(fmt.Sprintf("%d release tags among %d tags (ordered by creation: %t)", len(releases), len(tags), dated))
	return releases, nil
}

func (h *History) release(ctx context.Context, rt releaseTag) (*Release, error) {
	at, err := h.provider.CommitTime(ctx, rt.tag.CommitSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit time of %s: %w", rt.tag.Name, err)
	}

	h.log.Debug(fmt.Sprintf("Release %s at %s", rt.tag.Name, timeutil.FormatTimestamp(at)))
	return &Release{Tag: rt.tag, Version: rt.version.String(), Timestamp: at}, nil
}

// LastReleaseTimestamp returns the commit time of the latest release tag,
// or the epoch when there is none.
func (h *History) LastReleaseTimestamp(ctx context.Context) (time.Time, error) {
	last, err := h.LastRelease(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return h.cutoff(last), nil
}

// MergedSince lists pull requests merged into base strictly after cutoff,
// in listing order, without the ones produced by previous releases.
func (h *History) MergedSince(ctx context.Context, cutoff time.Time) ([]platform.PullRequestSummary, error) {
	first, err := h.provider.ListClosedPullRequests(ctx, h.base, firstPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	closed, err := h.collect(ctx, first, cutoff)
	if err != nil {
		return nil, err
	}
	return FilterMerged(closed, cutoff, h.markerPrefix), nil
}

// Since builds the snapshot of pull requests merged after last, or after
// the epoch when last is nil.
func (h *History) Since(ctx context.Context, last *Release) (*Snapshot, error) {
	first, err := h.provider.ListClosedPullRequests(ctx, h.base, firstPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return h.snapshot(ctx, last, first)
}

// Gather reads the latest release and the first page of closed pull
// requests concurrently, then pages further until the listing passes the
// cutoff. Filtering waits for both reads.
func (h *History) Gather(ctx context.Context) (*Snapshot, error) {
	var (
		last  *Release
		first *platform.PullRequestPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		last, err = h.LastRelease(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		first, err = h.provider.ListClosedPullRequests(gctx, h.base, firstPage)
		if err != nil {
			return fmt.Errorf("failed to list pull requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return h.snapshot(ctx, last, first)
}

func (h *History) snapshot(ctx context.Context, last *Release, first *platform.PullRequestPage) (*Snapshot, error) {
	cutoff := h.cutoff(last)
	closed, err := h.collect(ctx, first, cutoff)
	if err != nil {
		return nil, err
	}

	merged := FilterMerged(closed, cutoff, h.markerPrefix)
	h.log.Debug(fmt.Sprintf("%d of %d closed pull requests merged after %s",
		len(merged), len(closed), timeutil.FormatTimestamp(cutoff)))

	return &Snapshot{
		Last:    last,
		Cutoff:  cutoff,
		Merged:  merged,
		Scanned: len(closed),
	}, nil
}

func (h *History) cutoff(last *Release) time.Time {
	if last == nil {
		return h.epoch
	}
	return last.Timestamp
}

// collect follows pagination from first until the listing is exhausted or
// its oldest entry was last updated before cutoff. A pull request merged
// after cutoff was updated after it, so later pages cannot qualify.
func (h *History) collect(ctx context.Context, first *platform.PullRequestPage, cutoff time.Time) ([]platform.PullRequestSummary, error) {
	all := append([]platform.PullRequestSummary(nil), first.PullRequests...)
	next := first.NextPage

	for next != 0 && !passedCutoff(all, cutoff) {
		page, err := h.provider.ListClosedPullRequests(ctx, h.base, next)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests page %d: %w", next, err)
		}
		all = append(all, page.PullRequests...)
		next = page.NextPage
	}
	return all, nil
}

func passedCutoff(prs []platform.PullRequestSummary, cutoff time.Time) bool {
	if len(prs) == 0 {
		return false
	}
	return prs[len(prs)-1].UpdatedAt.Before(cutoff)
}

// FilterMerged keeps pull requests merged strictly after cutoff whose title
// does not start with markerPrefix, preserving order.
func FilterMerged(prs []platform.PullRequestSummary, cutoff time.Time, markerPrefix string) []platform.PullRequestSummary {
	out := make([]platform.PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		if !pr.Merged() || !pr.MergedAt.After(cutoff) {
			continue
		}
		if markerPrefix != "" && strings.HasPrefix(pr.Title, markerPrefix) {
			continue
		}
		out = append(out, pr)
	}
	return out
}
