package platform_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/security"
	glclient "github.com/sgaunet/auto-release/pkg/gitlab"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glPrefix = "/api/v4/projects/acme%2Fwidget"

func newGitLabAdapter(t *testing.T, routes map[string]http.HandlerFunc) *platform.GitLabAdapter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method+" "+r.URL.EscapedPath()]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := glclient.NewClient(security.NewSecureToken("test-token"), srv.URL)
	require.NoError(t, err)
	require.NoError(t, client.SetProject("acme/widget"))
	return platform.NewGitLabAdapter(client, logger.NoLogger())
}

func TestGitLabAdapter_StaleRevisionIsConflict(t *testing.T) {
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"POST " + glPrefix + "/repository/commits": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusBadRequest, map[string]string{
				"message": "You are attempting to update a file that has changed since you started editing it.",
			})
		},
	})

	_, err := adapter.UpdateFile(t.Context(), platform.FileUpdate{Path: "package.json", Branch: "main", Revision: "old"})
	assert.ErrorIs(t, err, platform.ErrConflict)
}

func TestGitLabAdapter_DuplicateTagIsConflict(t *testing.T) {
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"POST " + glPrefix + "/repository/tags": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusBadRequest, map[string]string{"message": "Tag v1.2.4 already exists"})
		},
	})

	_, err := adapter.CreateTag(t.Context(), platform.TagRequest{Name: "v1.2.4", Message: "v1.2.4", CommitSHA: "c"})
	assert.ErrorIs(t, err, platform.ErrConflict)
}

func TestGitLabAdapter_MissingFileIsNotFound(t *testing.T) {
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/repository/files/package%2Ejson": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusNotFound, map[string]string{"message": "404 File Not Found"})
		},
	})

	_, err := adapter.GetFile(t.Context(), "package.json", "main")
	assert.ErrorIs(t, err, platform.ErrNotFound)
}

func TestGitLabAdapter_CommitTimeAndTags(t *testing.T) {
	authored := fixtures.Cutoff
	created := fixtures.Cutoff.Add(time.Hour)
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/repository/commits": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("ref_name") {
			case "c3":
				respond(w, http.StatusOK, []map[string]any{{"id": "c3", "authored_date": authored.Format(time.RFC3339)}})
			case "c4":
				respond(w, http.StatusOK, []map[string]any{{"id": "c4", "committed_date": created.Format(time.RFC3339)}})
			case "undated":
				respond(w, http.StatusOK, []map[string]any{{"id": "undated"}})
			default:
				respond(w, http.StatusOK, []any{})
			}
		},
		"GET " + glPrefix + "/repository/tags": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusOK, []map[string]any{
				{"name": "v1.2.4", "created_at": created.Format(time.RFC3339), "commit": map[string]any{"id": "c4"}},
				{"name": "v1.2.3", "commit": map[string]any{"id": "c3", "committed_date": authored.Format(time.RFC3339)}},
				{"name": "nightly"},
			})
		},
	})

	tags, err := adapter.ListTags(t.Context())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "v1.2.4", tags[0].Name)
	assert.Equal(t, "c4", tags[0].CommitSHA)
	assert.True(t, created.Equal(tags[0].CreatedAt))
	assert.True(t, authored.Equal(tags[1].CreatedAt), "lightweight tag dated by its commit")
	assert.Equal(t, platform.Tag{Name: "nightly"}, tags[2])

	at, err := adapter.CommitTime(t.Context(), "c3")
	require.NoError(t, err)
	assert.True(t, authored.Equal(at))

	at, err = adapter.CommitTime(t.Context(), "c4")
	require.NoError(t, err)
	assert.True(t, created.Equal(at), "committed date used when authored date is missing")

	_, err = adapter.CommitTime(t.Context(), "gone")
	assert.ErrorIs(t, err, platform.ErrNotFound)
}

func TestGitLabAdapter_UndatedCommitIsAnError(t *testing.T) {
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/repository/commits": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusOK, []map[string]any{{"id": "undated"}})
		},
	})

	at, err := adapter.CommitTime(t.Context(), "undated")
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrNotFound)
	assert.True(t, at.IsZero())
}

func TestGitLabAdapter_TagExists(t *testing.T) {
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/repository/tags/v1.2.3": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusOK, map[string]any{"name": "v1.2.3", "commit": map[string]any{"id": "c3"}})
		},
		"GET " + glPrefix + "/repository/tags/v1.2.4": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusNotFound, map[string]string{"message": "404 Tag Not Found"})
		},
	})

	exists, err := adapter.TagExists(t.Context(), "v1.2.3")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = adapter.TagExists(t.Context(), "v1.2.4")
	require.NoError(t, err, "a missing tag is not a failure")
	assert.False(t, exists)
}

func TestGitLabAdapter_NotFoundKind(t *testing.T) {
	adapter := newGitLabAdapter(t, nil)

	_, err := adapter.GetFile(t.Context(), "package.json", "main")
	require.Error(t, err)
	assert.Equal(t, platform.KindNotFound, platform.KindOf(err))
}

func TestGitLabAdapter_ListClosedPullRequests(t *testing.T) {
	merged := fixtures.Cutoff.Add(time.Hour)
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/merge_requests": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusOK, []map[string]any{{
				"iid": 7, "title": "Add feature X", "web_url": "https://gitlab.example.com/acme/widget/-/merge_requests/7",
				"merged_at": merged.Format(time.RFC3339), "updated_at": merged.Format(time.RFC3339),
			}})
		},
		"POST " + glPrefix + "/merge_requests": func(w http.ResponseWriter, _ *http.Request) {
			respond(w, http.StatusConflict, map[string]any{
				"message": []string{"Another open merge request already exists for this source branch: !7"},
			})
		},
	})

	page, err := adapter.ListClosedPullRequests(t.Context(), "main", 1)
	require.NoError(t, err)
	require.Len(t, page.PullRequests, 1)
	pr := page.PullRequests[0]
	assert.Equal(t, int64(7), pr.Number)
	assert.True(t, merged.Equal(pr.MergedAt))

	_, err = adapter.CreatePullRequest(t.Context(), platform.ReleasePullRequest{Head: "main", Base: "release"})
	assert.ErrorIs(t, err, platform.ErrConflict)
	assert.Equal(t, "GitLab", adapter.PlatformName())
}

func TestGitLabAdapter_ListPullRequests(t *testing.T) {
	merged := fixtures.Cutoff.Add(time.Hour)
	var query map[string]string
	adapter := newGitLabAdapter(t, map[string]http.HandlerFunc{
		"GET " + glPrefix + "/merge_requests": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			query = map[string]string{"state": q.Get("state"), "source_branch": q.Get("source_branch"), "target_branch": q.Get("target_branch")}
			respond(w, http.StatusOK, []map[string]any{{
				"iid": 8, "title": "[Release] v1.2.4", "source_branch": "release/v1.2.4",
				"merged_at": merged.Format(time.RFC3339),
			}})
		},
	})

	prs, err := adapter.ListPullRequests(t.Context(), "release/v1.2.4", "release")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"state": "all", "source_branch": "release/v1.2.4", "target_branch": "release"}, query)
	require.Len(t, prs, 1)
	assert.Equal(t, "release/v1.2.4", prs[0].Head)
	assert.True(t, prs[0].Merged())
}
