package gitlab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token")
}

func TestClientRequests(t *testing.T) {
	t.Run("sends token header", func(t *testing.T) {
		var gotToken string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("PRIVATE-TOKEN")
			w.Write([]byte(`[]`))
		})
		_, err := client.ListMergeRequests(context.Background(), 42, "")
		require.NoError(t, err)
		assert.Equal(t, "test-token", gotToken)
	})

	t.Run("list merge requests filtered by branch", func(t *testing.T) {
		var gotPath, gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			w.Write([]byte(`[{"id": 100, "iid": 7, "title": "Add feature", "source_branch": "feat"}]`))
		})
		mrs, err := client.ListMergeRequests(context.Background(), 42, "feat")
		require.NoError(t, err)
		assert.Equal(t, "/api/v4/projects/42/merge_requests", gotPath)
		assert.Contains(t, gotQuery, "source_branch=feat")
		assert.Contains(t, gotQuery, "state=opened")
		require.Len(t, mrs, 1)
		assert.Equal(t, int64(7), mrs[0].IID)
		assert.Equal(t, "Add feature", mrs[0].Title)
	})

	t.Run("get project by path escapes the path", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Write([]byte(`{"id": 42, "path_with_namespace": "group/proj"}`))
		})
		project, err := client.GetProjectByPath(context.Background(), "group/proj")
		require.NoError(t, err)
		assert.Equal(t, "/api/v4/projects/group%2Fproj", gotPath)
		assert.Equal(t, int64(42), project.ID)
	})

	t.Run("list pipelines for an MR", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v4/projects/42/merge_requests/7/pipelines", r.URL.Path)
			w.Write([]byte(`[{"id": 900, "status": "failed"}, {"id": 899, "status": "success"}]`))
		})
		pipelines, err := client.ListPipelines(context.Background(), 42, 7)
		require.NoError(t, err)
		require.Len(t, pipelines, 2)
		assert.Equal(t, int64(900), pipelines[0].ID)
		assert.Equal(t, "failed", pipelines[0].Status)
	})

	t.Run("job trace is returned verbatim", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v4/projects/42/jobs/555/trace", r.URL.Path)
			w.Write([]byte("line one\nline two"))
		})
		trace, err := client.GetJobTrace(context.Background(), 42, 555)
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", trace)
	})
}

func TestClientErrors(t *testing.T) {
	statusTests := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"forbidden", http.StatusForbidden, KindAuth},
		{"not found", http.StatusNotFound, KindNotFound},
		{"rate limited", http.StatusTooManyRequests, KindNetwork},
		{"server error", http.StatusInternalServerError, KindNetwork},
	}
	for _, tt := range statusTests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.ListMergeRequests(context.Background(), 42, "")
			require.Error(t, err)
			assert.Equal(t, tt.kind, Kind(err))
		})
	}

	t.Run("malformed body is a parse error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})
		_, err := client.ListMergeRequests(context.Background(), 42, "")
		require.Error(t, err)
		assert.Equal(t, KindParse, Kind(err))
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "token")
		_, err := client.ListMergeRequests(context.Background(), 42, "")
		require.Error(t, err)
		assert.Equal(t, KindNetwork, Kind(err))
	})
}
