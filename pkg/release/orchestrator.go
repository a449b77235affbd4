package release

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/timeutil"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/notes"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/version"
	"github.com/sgaunet/bullets"
	"golang.org/x/sync/errgroup"
)

// Options tune a release run.
type Options struct {
	// DryRun stops after the reads and returns the plan.
	DryRun bool
	// SkipEmpty refuses to release when no pull request was merged.
	SkipEmpty bool
	// RunID is carried in debug output.
	RunID string
}

// Plan is everything a run decided before mutating the repository.
type Plan struct {
	Kind            version.BumpKind
	LastRelease     *Release // nil before the first release
	Cutoff          time.Time
	BaseVersion     string // version the bump applies to
	BaseSource      string // "tag <name>" or "manifest"
	ManifestVersion string
	NextVersion     string
	TagName         string
	Resume          bool     // manifest already carries NextVersion, the write is skipped
	Tagged          *Release // NextVersion is already tagged, only the pull request is opened
	PullRequests    []platform.PullRequestSummary
	Scanned         int
	Title           string
	Notes           string
	Manifest        *Manifest
}

// Result is the outcome of a release run.
type Result struct {
	Plan           *Plan
	CommitSHA      string
	Tag            *platform.TagRef
	Head           string
	PullRequestURL string
	DryRun         bool
	Elapsed        time.Duration
}

// ConfirmFunc is asked once before the first mutation.
type ConfirmFunc func(plan *Plan) (bool, error)

// Orchestrator runs the release pipeline against one provider.
type Orchestrator struct {
	release   config.ReleaseConfig
	opts      Options
	updater   *Updater
	history   *History
	tagger    *Tagger
	publisher *Publisher
	observer  Observer
	confirm   ConfirmFunc
	log       *bullets.Logger
}

// NewOrchestrator wires the release components for cfg.
func NewOrchestrator(provider platform.Provider, cfg *config.Config, opts Options) (*Orchestrator, error) {
	epoch, err := cfg.Epoch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrValidation, err)
	}

	r := cfg.Release
	return &Orchestrator{
		release:   r,
		opts:      opts,
		updater:   NewUpdater(provider, r.ManifestPath, r.IntegrationBranch),
		history:   NewHistory(provider, r.IntegrationBranch, r.ReleaseMarkerPrefix, r.TagPrefix, epoch),
		tagger:    NewTagger(provider, r.TagPrefix),
		publisher: NewPublisher(provider, r.ReleaseMarkerPrefix, r.HeadStrategy, r.IntegrationBranch),
		observer:  noopObserver{},
		log:       logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the orchestrator and its components.
func (o *Orchestrator) SetLogger(log *bullets.Logger) {
	o.log = log
	o.updater.SetLogger(log)
	o.history.SetLogger(log)
	o.tagger.SetLogger(log)
	o.publisher.SetLogger(log)
}

// SetObserver registers an observer of step progress.
func (o *Orchestrator) SetObserver(observer Observer) {
	if observer == nil {
		observer = noopObserver{}
	}
	o.observer = observer
}

// SetConfirm registers the confirmation asked before the first mutation.
// Without one the run proceeds unattended.
func (o *Orchestrator) SetConfirm(confirm ConfirmFunc) {
	o.confirm = confirm
}

// Run releases the next version for the bump kind raw. An invalid kind
// fails before any remote call. The first failing step aborts the run.
func (o *Orchestrator) Run(ctx context.Context, raw string) (*Result, error) {
	start := time.Now()

	kind, err := version.ParseBumpKind(raw)
	if err != nil {
		return nil, &StepError{Step: StepResolveVersion, Err: err}
	}
	o.debug("Starting %s release of %s/%s", kind, o.release.Owner, o.release.Repo)

	m, snap, err := o.read(ctx)
	if err != nil {
		return nil, err
	}

	var plan *Plan
	err = o.step(StepResolveVersion, func() error {
		plan, err = o.resolve(ctx, kind, m, snap)
		return err
	})
	if err != nil {
		return nil, err
	}
	o.log.Infof("Current version: %s (from %s)", plan.BaseVersion, plan.BaseSource)
	o.log.Infof("Last release: %s", timeutil.FormatTimestamp(plan.Cutoff))
	o.log.Infof("Found %d merged pull requests", len(plan.PullRequests))

	err = o.step(StepComposeNotes, func() error {
		if o.opts.SkipEmpty && len(plan.PullRequests) == 0 {
			return fmt.Errorf("%w: no pull request merged into %s since %s",
				platform.ErrNothingToRelease, o.release.IntegrationBranch, timeutil.FormatTimestamp(plan.Cutoff))
		}
		plan.Notes = notes.Compose(plan.PullRequests)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Plan: plan}
	if o.opts.DryRun {
		result.DryRun = true
		result.Elapsed = time.Since(start)
		return result, nil
	}

	if o.confirm != nil {
		err = o.step(StepConfirm, func() error {
			ok, err := o.confirm(plan)
			if err != nil {
				return err
			}
			if !ok {
				return errCancelled
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := o.publish(ctx, plan, result); err != nil {
		return result, err
	}

	result.Elapsed = time.Since(start)
	o.log.Infof("Release pull request: %s", result.PullRequestURL)
	return result, nil
}

// read fetches the manifest and the release history concurrently.
func (o *Orchestrator) read(ctx context.Context) (*Manifest, *Snapshot, error) {
	var (
		m       *Manifest
		snap    *Snapshot
		mErr    error
		histErr error
	)

	o.observer.StepStarted(StepReadManifestRevision)
	o.observer.StepStarted(StepReadHistory)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, mErr = o.updater.Fetch(gctx)
		if mErr != nil {
			return &StepError{Step: StepReadManifestRevision, Err: mErr}
		}
		return nil
	})
	g.Go(func() error {
		snap, histErr = o.history.Gather(gctx)
		if histErr != nil {
			return &StepError{Step: StepReadHistory, Err: histErr}
		}
		return nil
	})
	err := g.Wait()

	o.observer.StepFinished(StepReadManifestRevision, mErr)
	o.observer.StepFinished(StepReadHistory, histErr)
	if err != nil {
		return nil, nil, err
	}
	return m, snap, nil
}

// resolve picks the baseline and the next version. The latest release tag
// is the baseline when one exists; the manifest only serves the first
// release. A manifest already carrying the next version means an earlier
// run committed the bump and failed later, so the bump commit is reused.
// A latest release tagged on its bump commit without a release pull request
// means an earlier run failed after tagging, so that release is published
// instead of bumping again.
func (o *Orchestrator) resolve(ctx context.Context, kind version.BumpKind, m *Manifest, snap *Snapshot) (*Plan, error) {
	plan := &Plan{
		Kind:            kind,
		LastRelease:     snap.Last,
		Cutoff:          snap.Cutoff,
		ManifestVersion: m.Version,
		PullRequests:    snap.Merged,
		Scanned:         snap.Scanned,
		Manifest:        m,
	}

	if snap.Last != nil {
		plan.BaseVersion = snap.Last.Version
		plan.BaseSource = "tag " + snap.Last.Tag.Name
	} else {
		plan.BaseVersion = m.Version
		plan.BaseSource = "manifest"
	}

	next, err := version.Resolve(plan.BaseVersion, kind)
	if err != nil {
		return nil, err
	}
	plan.NextVersion = next

	switch {
	case version.Equal(m.Version, next):
		plan.Resume = true
	case snap.Last == nil:
		resumed, err := o.unreleasedBump(ctx, m.Version)
		if err != nil {
			return nil, err
		}
		if resumed {
			plan.NextVersion = m.Version
			plan.Resume = true
		}
	case version.Equal(m.Version, snap.Last.Version):
		pending, err := o.unpublished(ctx, snap.Last)
		if err != nil {
			return nil, err
		}
		if pending {
			if err := o.replan(ctx, plan, snap.Last); err != nil {
				return nil, err
			}
		}
	default:
		o.log.Warnf("Manifest declares %s but the last release is %s; releasing %s",
			m.Version, snap.Last.Tag.Name, next)
	}

	switch {
	case plan.Tagged != nil:
		o.log.Warnf("%s is tagged but has no release pull request, resuming an interrupted release", plan.Tagged.Tag.Name)
	case plan.Resume:
		o.log.Warnf("Manifest already declares %s, resuming an interrupted release", plan.NextVersion)
	}

	plan.TagName = o.tagger.Name(plan.NextVersion)
	plan.Title = o.publisher.Title(plan.TagName)
	return plan, nil
}

// unreleasedBump reports whether the manifest's last commit is a bump to
// manifestVersion that was never tagged. Only meaningful before the first
// release, when no tag anchors the baseline.
func (o *Orchestrator) unreleasedBump(ctx context.Context, manifestVersion string) (bool, error) {
	commit, err := o.updater.LastBumpCommit(ctx)
	if err != nil {
		return false, err
	}
	return firstLine(commit.Message) == CommitMessage(manifestVersion), nil
}

// unpublished reports whether last was tagged on the manifest's bump commit
// and no release pull request exists for it.
func (o *Orchestrator) unpublished(ctx context.Context, last *Release) (bool, error) {
	commit, err := o.updater.LastBumpCommit(ctx)
	if err != nil {
		return false, err
	}
	if commit.SHA != last.Tag.CommitSHA || firstLine(commit.Message) != CommitMessage(last.Version) {
		return false, nil
	}

	published, err := o.publisher.Published(ctx, last.Tag.Name, o.release.ReleaseBranch)
	if err != nil {
		return false, err
	}
	return !published, nil
}

// replan targets the already tagged release and lists the pull requests
// merged since the release before it.
func (o *Orchestrator) replan(ctx context.Context, plan *Plan, tagged *Release) error {
	prev, err := o.history.ReleaseBefore(ctx, tagged.Tag.Name)
	if err != nil {
		return err
	}
	snap, err := o.history.Since(ctx, prev)
	if err != nil {
		return err
	}

	plan.LastRelease = prev
	plan.Cutoff = snap.Cutoff
	plan.PullRequests = snap.Merged
	plan.Scanned = snap.Scanned
	plan.NextVersion = tagged.Version
	plan.Resume = true
	plan.Tagged = tagged
	return nil
}

// publish performs the mutations: bump commit, tag, pull request.
func (o *Orchestrator) publish(ctx context.Context, plan *Plan, result *Result) error {
	err := o.step(StepWriteManifest, func() error {
		if plan.Resume {
			commit, err := o.updater.LastBumpCommit(ctx)
			if err != nil {
				return err
			}
			result.CommitSHA = commit.SHA
			o.debug("Reusing bump commit %s", commit.SHA)
			return nil
		}
		sha, err := o.updater.Bump(ctx, plan.Manifest, plan.NextVersion)
		if err != nil {
			return err
		}
		result.CommitSHA = sha
		return nil
	})
	if err != nil {
		return err
	}

	err = o.step(StepCreateTag, func() error {
		if plan.Tagged != nil {
			result.Tag = &platform.TagRef{
				Name:      plan.Tagged.Tag.Name,
				Ref:       "refs/tags/" + plan.Tagged.Tag.Name,
				CommitSHA: plan.Tagged.Tag.CommitSHA,
			}
			o.debug("Reusing tag %s", plan.Tagged.Tag.Name)
			return nil
		}
		tag, err := o.tagger.Create(ctx, result.CommitSHA, plan.NextVersion)
		if err != nil {
			return err
		}
		result.Tag = tag
		return nil
	})
	if err != nil {
		return err
	}

	return o.step(StepOpenPullRequest, func() error {
		head, err := o.publisher.Head(ctx, result.Tag)
		if err != nil {
			return err
		}
		result.Head = head

		url, err := o.publisher.Open(ctx, head, o.release.ReleaseBranch, plan.Title, plan.Notes)
		if err != nil {
			return err
		}
		result.PullRequestURL = url
		return nil
	})
}

func (o *Orchestrator) step(s Step, fn func() error) error {
	o.observer.StepStarted(s)
	err := fn()
	o.observer.StepFinished(s, err)
	if err != nil {
		return &StepError{Step: s, Err: err}
	}
	o.debug("%s done", s)
	return nil
}

func (o *Orchestrator) debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.opts.RunID != "" {
		msg = "[" + o.opts.RunID + "] " + msg
	}
	o.log.Debug(msg)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
