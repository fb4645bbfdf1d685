package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSerpAPITest(t *testing.T, handler http.HandlerFunc) *SerpAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSerpAPI("test-key")
	s.BaseURL = srv.URL
	s.Client = srv.Client()
	return s
}

func TestSerpAPISearch_ParsesJobsResults(t *testing.T) {
	s := newSerpAPITest(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_jobs", q.Get("engine"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "Berlin", q.Get("location"))

		resp := map[string]any{
			"jobs_results": []map[string]any{
				{
					"title":        "Operations Manager",
					"company_name": "PaymentCo",
					"location":     "Berlin",
					"description":  "Fintech role",
					"via":          "LinkedIn",
					"detected_extensions": map[string]any{
						"posted_at": "3 days ago",
					},
					"related_links": []map[string]any{
						{"link": "https://example.com/apply"},
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	jobs, err := s.Search(context.Background(), "operations manager", "Berlin", 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "PaymentCo", jobs[0].Company)
	assert.Equal(t, "https://example.com/apply", jobs[0].ApplyURL)
	assert.Equal(t, "Google Jobs (LinkedIn)", jobs[0].Source)
	assert.NotNil(t, jobs[0].PostedDate)
}

func TestSerpAPISearch_RejectsWebSearchShape(t *testing.T) {
	s := newSerpAPITest(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"organic_results": []map[string]any{
				{"title": "Some web page", "link": "https://example.com"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	jobs, err := s.Search(context.Background(), "q", "", 5)
	assert.Empty(t, jobs)

	var shapeErr *WrongShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestSerpAPISearch_APIErrorField(t *testing.T) {
	s := newSerpAPITest(t, func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"error": "rate limited"}))
	})

	_, err := s.Search(context.Background(), "q", "", 5)
	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "rate limited", provErr.Message)
}

func TestSerpAPISearch_CapsAtAPILimit(t *testing.T) {
	s := newSerpAPITest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"jobs_results": []map[string]any{}}))
	})

	jobs, err := s.Search(context.Background(), "q", "", 50)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSerpAPISearch_TruncatesLongDescriptions(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	s := newSerpAPITest(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"jobs_results": []map[string]any{
				{"title": "Job", "company_name": "Co", "description": string(long)},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	jobs, err := s.Search(context.Background(), "q", "", 5)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Len(t, jobs[0].Summary, 500)
}
