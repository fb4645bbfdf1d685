package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSerperTest(t *testing.T, handler http.HandlerFunc) *Serper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSerper("test-key")
	s.BaseURL = srv.URL
	s.Client = srv.Client()
	return s
}

func TestSerperSearch_ParsesJobsShape(t *testing.T) {
	s := newSerperTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, http.MethodPost, r.Method)

		var body serperRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "operations manager", body.Q)

		resp := map[string]any{
			"jobs": []map[string]any{
				{
					"title":        "Operations Manager",
					"company_name": "PaymentCo",
					"location":     "Remote",
					"description":  "Fintech ops role",
					"link":         "https://example.com/job/1",
					"date":         "2 days ago",
				},
				{
					"title":       "Ops Lead",
					"description": "No company in payload",
					"link":        "https://example.com/job/2",
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	jobs, err := s.Search(context.Background(), "operations manager", "us", 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Operations Manager", jobs[0].Title)
	assert.Equal(t, "PaymentCo", jobs[0].Company)
	assert.Equal(t, "Google Jobs (Serper)", jobs[0].Source)
	require.NotNil(t, jobs[0].PostedDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -2), *jobs[0].PostedDate, time.Minute)

	// Missing company falls back to the canonical placeholder
	assert.Equal(t, "Unknown", jobs[1].Company)
	assert.Nil(t, jobs[1].PostedDate)
}

func TestSerperSearch_RejectsWebSearchShape(t *testing.T) {
	// A payload with organic web results instead of a jobs array means the
	// wrong endpoint answered; no postings may be fabricated from it.
	s := newSerperTest(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"organic": []map[string]any{
				{"title": "PaymentCo - Operations Manager", "link": "https://example.com", "snippet": "..."},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	jobs, err := s.Search(context.Background(), "operations manager", "", 10)
	assert.Empty(t, jobs)

	var shapeErr *WrongShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "serper", shapeErr.Provider)
}

func TestSerperSearch_NonOKStatus(t *testing.T) {
	s := newSerperTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	jobs, err := s.Search(context.Background(), "q", "", 5)
	assert.Empty(t, jobs)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message, "429")
}

func TestSerperSearch_MalformedJSON(t *testing.T) {
	s := newSerperTest(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := s.Search(context.Background(), "q", "", 5)
	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "malformed response", provErr.Message)
}

func TestSerperSearch_MissingKey(t *testing.T) {
	s := NewSerper("")
	_, err := s.Search(context.Background(), "q", "", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestSerperSearch_RespectsMaxResults(t *testing.T) {
	s := newSerperTest(t, func(w http.ResponseWriter, _ *http.Request) {
		jobs := make([]map[string]any, 8)
		for i := range jobs {
			jobs[i] = map[string]any{"title": "Job", "company_name": "Co", "link": "https://x"}
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"jobs": jobs}))
	})

	jobs, err := s.Search(context.Background(), "q", "", 3)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestSerperSearch_ContextCancelled(t *testing.T) {
	s := newSerperTest(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"jobs":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "q", "", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
