package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hr_records/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	docs     map[string]json.RawMessage
	created  bool
	lastBody string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	body, _ := io.ReadAll(r.Body)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.created {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && len(parts) == 1:
		f.created = true
		f.lastBody = string(body)
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case (r.Method == http.MethodPut || r.Method == http.MethodPost) && len(parts) == 3 && parts[1] == "_doc":
		f.docs[parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete && len(parts) == 3:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.docs, parts[2])
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		f.lastBody = string(body)
		hits := make([]map[string]json.RawMessage, 0, len(f.docs))
		for _, d := range f.docs {
			hits = append(hits, map[string]json.RawMessage{"_source": d})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": len(hits)},
				"hits":  hits,
			},
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func newTestIndex(t *testing.T) (*Index, *fakeES) {
	t.Helper()
	fake := &fakeES{docs: map[string]json.RawMessage{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return &Index{ES: client, Index: "employees"}, fake
}

func TestIndex_EnsureIndex_CreatesOnce(t *testing.T) {
	ix, fake := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Ping(ctx))
	require.NoError(t, ix.EnsureIndex(ctx))
	assert.True(t, fake.created)
	assert.Contains(t, fake.lastBody, `"employeeId"`)

	fake.lastBody = ""
	require.NoError(t, ix.EnsureIndex(ctx))
	assert.Empty(t, fake.lastBody)
}

func TestIndex_IndexSearchDelete(t *testing.T) {
	ix, fake := newTestIndex(t)
	ctx := context.Background()

	emp := &models.Employee{EmployeeID: "E-1", FirstName: "ann", LastName: "lee", Email: "ann@example.com", Department: "engineering"}
	require.NoError(t, ix.IndexEmployee(ctx, emp))
	require.Contains(t, fake.docs, "E-1")

	total, items, err := ix.Search(ctx, "anne", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "ann@example.com", items[0].Email)
	assert.Contains(t, fake.lastBody, `"fuzziness":"AUTO"`)

	require.NoError(t, ix.DeleteEmployee(ctx, "E-1"))
	assert.NotContains(t, fake.docs, "E-1")
	require.NoError(t, ix.DeleteEmployee(ctx, "E-1"))
}

func TestIndex_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	ix := &Index{ES: client, Index: "employees"}

	_, _, err = ix.Search(context.Background(), "x", 0, 10)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestIndex_EnsureIndex_DoesNotCreateOnError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var creates int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				if r.Method == http.MethodPut {
					creates++
					_, _ = io.WriteString(w, `{"acknowledged":true}`)
					return
				}
				w.WriteHeader(status)
			}))
			t.Cleanup(srv.Close)

			client, err := NewClient(srv.URL, "", "")
			require.NoError(t, err)
			ix := &Index{ES: client, Index: "employees"}

			err = ix.EnsureIndex(context.Background())
			require.ErrorIs(t, err, ErrUnavailable)
			assert.Zero(t, creates)
		})
	}
}
