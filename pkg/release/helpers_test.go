package release_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/release"
	"github.com/sgaunet/auto-release/testing/fixtures"
	"github.com/sgaunet/auto-release/testing/mocks"
	"github.com/stretchr/testify/require"
)

const manifestPath = fixtures.DefaultManifestPath

var bumpTime = fixtures.Cutoff.Add(time.Hour)

func newConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse("config.yml", []byte("release:\n  owner: acme\n  repo: widget\n"+extra))
	require.NoError(t, err)
	return cfg
}

// releasedProvider holds a repository released as v1.2.3 at fixtures.Cutoff
// with the pull requests of fixtures.PullRequestsAroundCutoff.
func releasedProvider() (*mocks.PlatformProvider, string) {
	p := mocks.NewPlatformProvider()
	p.Now = func() time.Time { return bumpTime }
	sha := p.SeedFile(fixtures.DefaultIntegration, manifestPath,
		fixtures.PackageJSON("1.2.3"), release.CommitMessage("1.2.3"), fixtures.Cutoff)
	p.SeedTag("v1.2.3", sha, fixtures.Cutoff)
	p.SeedMergedPullRequest(releasePullRequest("v1.2.3"), fixtures.Cutoff.Add(6*time.Minute))
	p.SeedClosedPullRequests(fixtures.PullRequestsAroundCutoff()...)
	return p, sha
}

func releasePullRequest(tag string) platform.ReleasePullRequest {
	return platform.ReleasePullRequest{
		Head:  release.SnapshotBranch(tag),
		Base:  fixtures.DefaultReleaseBranch,
		Title: fixtures.DefaultMarkerPrefix + tag,
	}
}

func mutations(p *mocks.PlatformProvider) int {
	return p.GetCallCount("UpdateFile") + p.GetCallCount("CreateTag") +
		p.GetCallCount("CreateBranch") + p.GetCallCount("CreatePullRequest")
}

type event struct {
	step    release.Step
	started bool
	failed  bool
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) StepStarted(step release.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{step: step, started: true})
}

func (r *recorder) StepFinished(step release.Step, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{step: step, failed: err != nil})
}
