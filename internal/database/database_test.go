package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetHandle(t *testing.T) {
	t.Helper()
	dbInstance = nil
	t.Cleanup(func() { dbInstance = nil })
}

func TestNew_MissingSettings(t *testing.T) {
	resetHandle(t)
	t.Setenv(urlEnv, "")
	t.Setenv(keyEnv, "")

	svc, err := New()
	require.Error(t, err)
	assert.Nil(t, svc)

	// The error names both settings so a misconfigured deployment is obvious.
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")
}

func TestNew_MissingKeyOnly(t *testing.T) {
	resetHandle(t)
	t.Setenv(urlEnv, "https://example.supabase.co")
	t.Setenv(keyEnv, "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")
}

func TestNew_MemoizesHandle(t *testing.T) {
	resetHandle(t)
	t.Setenv(urlEnv, "https://example.supabase.co")
	t.Setenv(keyEnv, "anon-key")

	first, err := New()
	require.NoError(t, err)
	second, err := New()
	require.NoError(t, err)

	assert.Same(t, first.(*service), second.(*service))
}

func newTestService(ts *httptest.Server) *service {
	return &service{
		baseURL: ts.URL + "/rest/v1",
		apiKey:  "anon-key",
		client:  ts.Client(),
	}
}

func TestSelect_OrderedQueryShape(t *testing.T) {
	var gotPath, gotOrder, gotAPIKey, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOrder = r.URL.Query().Get("order")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id": 1, "confession": "hello", "like": 0}]`)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	rows, err := svc.Select(context.Background(), "message", SelectOptions{OrderBy: "created_at", Descending: true})
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/message", gotPath)
	assert.Equal(t, "created_at.desc", gotOrder)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)

	require.Len(t, rows, 1)
	assert.Equal(t, "hello", rows[0]["confession"])
}

func TestSelect_UnorderedQueryShape(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	rows, err := svc.Select(context.Background(), "message", SelectOptions{})
	require.NoError(t, err)

	assert.Equal(t, "select=%2A", gotQuery)
	assert.Empty(t, rows)
}

func TestSelect_RemoteFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"column message.created_at does not exist"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	_, err := svc.Select(context.Background(), "message", SelectOptions{OrderBy: "created_at", Descending: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestInsert_ReturnsRepresentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var record map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, "I sing in the elevator", record["confession"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id": 7, "confession": "I sing in the elevator", "like": 0, "created_at": "2025-06-01T12:00:00Z"}]`)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	row, err := svc.Insert(context.Background(), "message", map[string]any{
		"confession": "I sing in the elevator",
		"like":       0,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(7), row["id"])
}

func TestInsert_EmptyRepresentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[]`)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	_, err := svc.Insert(context.Background(), "message", map[string]any{"confession": "whisper"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no representation")
}

func TestUpdate_PatchesByID(t *testing.T) {
	var gotMethod, gotFilter string
	var gotPatch map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotFilter = r.URL.Query().Get("id")
		json.NewDecoder(r.Body).Decode(&gotPatch)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	svc := newTestService(ts)
	err := svc.Update(context.Background(), "message", "7", map[string]any{"like": 6})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "eq.7", gotFilter)
	assert.Equal(t, float64(6), gotPatch["like"])
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	svc := newTestService(ts)
	stats := svc.Health(context.Background())
	assert.Equal(t, "up", stats["status"])

	ts.Close()
	stats = svc.Health(context.Background())
	assert.Equal(t, "down", stats["status"])
}
