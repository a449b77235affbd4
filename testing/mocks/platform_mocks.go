package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sgaunet/auto-release/pkg/platform"
)

const pullRequestURLFormat = "https://example.com/acme/widget/pull/%d"

// MethodCall represents a tracked method call.
type MethodCall struct {
	Method string
	Args   map[string]any
}

type mergedPullRequest struct {
	pr       platform.ReleasePullRequest
	mergedAt time.Time
}

type storedFile struct {
	content  []byte
	revision string
	commit   platform.Commit
}

// PlatformProvider is an in-memory platform.Provider with call tracking.
// It keeps files with revision markers, tags, branches, commit times and
// pull requests, and enforces the same conflicts a real remote does.
type PlatformProvider struct {
	mu    sync.Mutex
	calls []MethodCall

	state       sync.Mutex
	seq         int
	files       map[string]*storedFile
	commitTimes map[string]time.Time
	tags        []platform.Tag
	branches    map[string]string
	closed      []platform.PullRequestSummary
	opened      []platform.ReleasePullRequest
	merged      []mergedPullRequest
	failures    map[string]error

	// PageSize splits the closed pull request listing. Zero lists one page.
	PageSize int
	// Now stamps commits written through UpdateFile and tags created
	// through CreateTag.
	Now               func() time.Time
	PlatformNameValue string
}

// NewPlatformProvider creates an empty in-memory provider.
func NewPlatformProvider() *PlatformProvider {
	return &PlatformProvider{
		calls:             make([]MethodCall, 0),
		files:             make(map[string]*storedFile),
		commitTimes:       make(map[string]time.Time),
		branches:          make(map[string]string),
		failures:          make(map[string]error),
		Now:               time.Now,
		PlatformNameValue: "MockPlatform",
	}
}

// FailOn makes every later call to method return err.
func (m *PlatformProvider) FailOn(method string, err error) {
	m.state.Lock()
	defer m.state.Unlock()
	m.failures[method] = err
}

// SeedFile stores content at path on branch as committed with message and
// returns the commit id.
func (m *PlatformProvider) SeedFile(branch, path string, content []byte, message string, at time.Time) string {
	m.state.Lock()
	defer m.state.Unlock()
	return m.commitFile(branch, path, content, message, at)
}

// SeedTag publishes tag name at sha, a commit authored at.
func (m *PlatformProvider) SeedTag(name, sha string, at time.Time) {
	m.state.Lock()
	defer m.state.Unlock()
	m.tags = append(m.tags, platform.Tag{Name: name, CommitSHA: sha})
	m.commitTimes[sha] = at
}

// SeedTagCreated publishes tag name at sha like SeedTag and reports
// created as its creation date.
func (m *PlatformProvider) SeedTagCreated(name, sha string, at, created time.Time) {
	m.state.Lock()
	defer m.state.Unlock()
	m.tags = append(m.tags, platform.Tag{Name: name, CommitSHA: sha, CreatedAt: created})
	m.commitTimes[sha] = at
}

// SeedClosedPullRequests sets the closed pull request listing, most
// recently updated first.
func (m *PlatformProvider) SeedClosedPullRequests(prs ...platform.PullRequestSummary) {
	m.state.Lock()
	defer m.state.Unlock()
	m.closed = append([]platform.PullRequestSummary(nil), prs...)
}

// SeedOpenPullRequest records a pull request left open by an earlier run.
func (m *PlatformProvider) SeedOpenPullRequest(pr platform.ReleasePullRequest) {
	m.state.Lock()
	defer m.state.Unlock()
	m.opened = append(m.opened, pr)
}

// SeedMergedPullRequest records a release pull request merged at.
// It is reported by ListPullRequests only.
func (m *PlatformProvider) SeedMergedPullRequest(pr platform.ReleasePullRequest, at time.Time) {
	m.state.Lock()
	defer m.state.Unlock()
	m.merged = append(m.merged, mergedPullRequest{pr: pr, mergedAt: at})
}

// SeedBranch creates branch at sha.
func (m *PlatformProvider) SeedBranch(name, sha string) {
	m.state.Lock()
	defer m.state.Unlock()
	m.branches[name] = sha
}

// File returns the stored content and revision of path on branch.
func (m *PlatformProvider) File(branch, path string) ([]byte, string, bool) {
	m.state.Lock()
	defer m.state.Unlock()
	f, ok := m.files[fileKey(branch, path)]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), f.content...), f.revision, true
}

// Tags returns the published tags in creation order.
func (m *PlatformProvider) Tags() []platform.Tag {
	m.state.Lock()
	defer m.state.Unlock()
	return append([]platform.Tag{}, m.tags...)
}

// Branch returns the commit a branch points at.
func (m *PlatformProvider) Branch(name string) (string, bool) {
	m.state.Lock()
	defer m.state.Unlock()
	sha, ok := m.branches[name]
	return sha, ok
}

// OpenedPullRequests returns the pull requests opened so far.
func (m *PlatformProvider) OpenedPullRequests() []platform.ReleasePullRequest {
	m.state.Lock()
	defer m.state.Unlock()
	return append([]platform.ReleasePullRequest{}, m.opened...)
}

// GetFile implements platform.Provider.
func (m *PlatformProvider) GetFile(_ context.Context, path, ref string) (*platform.File, error) {
	m.trackCall("GetFile", map[string]any{
		"path": path,
		"ref":  ref,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("GetFile"); err != nil {
		return nil, err
	}

	f, ok := m.files[fileKey(ref, path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", platform.ErrNotFound, path, ref)
	}
	return &platform.File{
		Path:     path,
		Ref:      ref,
		Content:  append([]byte(nil), f.content...),
		Revision: f.revision,
	}, nil
}

// UpdateFile implements platform.Provider.
func (m *PlatformProvider) UpdateFile(_ context.Context, update platform.FileUpdate) (string, error) {
	m.trackCall("UpdateFile", map[string]any{
		"path":     update.Path,
		"branch":   update.Branch,
		"message":  update.Message,
		"revision": update.Revision,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("UpdateFile"); err != nil {
		return "", err
	}

	f, ok := m.files[fileKey(update.Branch, update.Path)]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", platform.ErrNotFound, update.Path, update.Branch)
	}
	if f.revision != update.Revision {
		return "", fmt.Errorf("%w: %s is at %s, not %s",
			platform.ErrConflict, update.Path, f.revision, update.Revision)
	}
	return m.commitFile(update.Branch, update.Path, update.Content, update.Message, m.Now()), nil
}

// LastCommitForPath implements platform.Provider.
func (m *PlatformProvider) LastCommitForPath(_ context.Context, path, branch string) (*platform.Commit, error) {
	m.trackCall("LastCommitForPath", map[string]any{
		"path":   path,
		"branch": branch,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("LastCommitForPath"); err != nil {
		return nil, err
	}

	f, ok := m.files[fileKey(branch, path)]
	if !ok {
		return nil, fmt.Errorf("%w: no commit touches %s on %s", platform.ErrNotFound, path, branch)
	}
	commit := f.commit
	return &commit, nil
}

// ListTags implements platform.Provider.
func (m *PlatformProvider) ListTags(_ context.Context) ([]platform.Tag, error) {
	m.trackCall("ListTags", map[string]any{})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("ListTags"); err != nil {
		return nil, err
	}
	return append([]platform.Tag{}, m.tags...), nil
}

// CommitTime implements platform.Provider.
func (m *PlatformProvider) CommitTime(_ context.Context, sha string) (time.Time, error) {
	m.trackCall("CommitTime", map[string]any{
		"sha": sha,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("CommitTime"); err != nil {
		return time.Time{}, err
	}

	at, ok := m.commitTimes[sha]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: commit %s", platform.ErrNotFound, sha)
	}
	return at, nil
}

// TagExists implements platform.Provider.
func (m *PlatformProvider) TagExists(_ context.Context, name string) (bool, error) {
	m.trackCall("TagExists", map[string]any{
		"name": name,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("TagExists"); err != nil {
		return false, err
	}
	return m.hasTag(name), nil
}

// CreateTag implements platform.Provider.
func (m *PlatformProvider) CreateTag(_ context.Context, req platform.TagRequest) (*platform.TagRef, error) {
	m.trackCall("CreateTag", map[string]any{
		"name":    req.Name,
		"message": req.Message,
		"sha":     req.CommitSHA,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("CreateTag"); err != nil {
		return nil, err
	}

	if m.hasTag(req.Name) {
		return nil, fmt.Errorf("%w: tag %s already exists", platform.ErrConflict, req.Name)
	}
	m.tags = append(m.tags, platform.Tag{Name: req.Name, CommitSHA: req.CommitSHA, CreatedAt: m.Now()})
	m.seq++
	return &platform.TagRef{
		Name:      req.Name,
		Ref:       "refs/tags/" + req.Name,
		ObjectSHA: fmt.Sprintf("tag%04d", m.seq),
		CommitSHA: req.CommitSHA,
	}, nil
}

// CreateBranch implements platform.Provider.
func (m *PlatformProvider) CreateBranch(_ context.Context, name, sha string) error {
	m.trackCall("CreateBranch", map[string]any{
		"name": name,
		"sha":  sha,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("CreateBranch"); err != nil {
		return err
	}

	if _, ok := m.branches[name]; ok {
		return fmt.Errorf("%w: branch %s already exists", platform.ErrConflict, name)
	}
	m.branches[name] = sha
	return nil
}

// ListClosedPullRequests implements platform.Provider.
func (m *PlatformProvider) ListClosedPullRequests(_ context.Context, base string, page int) (*platform.PullRequestPage, error) {
	m.trackCall("ListClosedPullRequests", map[string]any{
		"base": base,
		"page": page,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("ListClosedPullRequests"); err != nil {
		return nil, err
	}

	if m.PageSize <= 0 {
		if page > 1 {
			return &platform.PullRequestPage{}, nil
		}
		return &platform.PullRequestPage{
			PullRequests: append([]platform.PullRequestSummary{}, m.closed...),
		}, nil
	}

	start := (page - 1) * m.PageSize
	if start >= len(m.closed) {
		return &platform.PullRequestPage{}, nil
	}
	end := min(start+m.PageSize, len(m.closed))
	result := &platform.PullRequestPage{
		PullRequests: append([]platform.PullRequestSummary{}, m.closed[start:end]...),
	}
	if end < len(m.closed) {
		result.NextPage = page + 1
	}
	return result, nil
}

// ListPullRequests implements platform.Provider.
func (m *PlatformProvider) ListPullRequests(_ context.Context, head, base string) ([]platform.PullRequestSummary, error) {
	m.trackCall("ListPullRequests", map[string]any{
		"head": head,
		"base": base,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("ListPullRequests"); err != nil {
		return nil, err
	}

	var prs []platform.PullRequestSummary
	for i := len(m.opened) - 1; i >= 0; i-- {
		pr := m.opened[i]
		if pr.Head == head && pr.Base == base {
			prs = append(prs, platform.PullRequestSummary{
				Number: int64(101 + i),
				Title:  pr.Title,
				URL:    fmt.Sprintf(pullRequestURLFormat, 101+i),
				Head:   pr.Head,
			})
		}
	}
	for i, merged := range m.merged {
		if merged.pr.Head == head && merged.pr.Base == base {
			prs = append(prs, platform.PullRequestSummary{
				Number:    int64(i + 1),
				Title:     merged.pr.Title,
				Head:      merged.pr.Head,
				MergedAt:  merged.mergedAt,
				UpdatedAt: merged.mergedAt,
			})
		}
	}
	return prs, nil
}

// CreatePullRequest implements platform.Provider.
func (m *PlatformProvider) CreatePullRequest(_ context.Context, pr platform.ReleasePullRequest) (string, error) {
	m.trackCall("CreatePullRequest", map[string]any{
		"head":  pr.Head,
		"base":  pr.Base,
		"title": pr.Title,
		"body":  pr.Body,
	})
	m.state.Lock()
	defer m.state.Unlock()
	if err := m.failure("CreatePullRequest"); err != nil {
		return "", err
	}

	for _, open := range m.opened {
		if open.Head == pr.Head && open.Base == pr.Base {
			return "", fmt.Errorf("%w: a pull request already exists for %s", platform.ErrConflict, pr.Head)
		}
	}
	m.opened = append(m.opened, pr)
	return fmt.Sprintf(pullRequestURLFormat, 100+len(m.opened)), nil
}

// PlatformName implements platform.Provider.
func (m *PlatformProvider) PlatformName() string {
	return m.PlatformNameValue
}

// GetCalls returns all tracked method calls.
func (m *PlatformProvider) GetCalls() []MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MethodCall{}, m.calls...)
}

// GetCallCount returns the number of times a method was called.
func (m *PlatformProvider) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetLastCall returns the last call to the specified method, or nil if not called.
func (m *PlatformProvider) GetLastCall(method string) *MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return &m.calls[i]
		}
	}
	return nil
}

// Reset clears all tracked calls. Stored state is kept.
func (m *PlatformProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MethodCall, 0)
}

// trackCall records a method call with its arguments.
func (m *PlatformProvider) trackCall(method string, args map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MethodCall{
		Method: method,
		Args:   args,
	})
}

// commitFile must be called with the state lock held.
func (m *PlatformProvider) commitFile(branch, path string, content []byte, message string, at time.Time) string {
	m.seq++
	sha := fmt.Sprintf("commit%04d", m.seq)
	m.files[fileKey(branch, path)] = &storedFile{
		content:  append([]byte(nil), content...),
		revision: fmt.Sprintf("rev%04d", m.seq),
		commit:   platform.Commit{SHA: sha, Message: message},
	}
	m.commitTimes[sha] = at
	m.branches[branch] = sha
	return sha
}

func (m *PlatformProvider) hasTag(name string) bool {
	for _, t := range m.tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (m *PlatformProvider) failure(method string) error {
	return m.failures[method]
}

func fileKey(branch, path string) string {
	return branch + ":" + path
}

// Ensure PlatformProvider implements platform.Provider interface.
var _ platform.Provider = (*PlatformProvider)(nil)
