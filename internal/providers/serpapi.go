package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// SerpAPI searches the Google Jobs engine through serpapi.com. Fallback
// provider: the free tier is small, so the orchestrator only reaches for it
// when the primary fails or runs out of quota.
type SerpAPI struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	now     func() time.Time
}

const (
	serpapiDefaultURL = "https://serpapi.com/search"
	serpapiMaxResults = 10 // API hard limit per page
)

// NewSerpAPI creates the SerpAPI adapter.
func NewSerpAPI(apiKey string) *SerpAPI {
	return &SerpAPI{
		APIKey:  apiKey,
		BaseURL: serpapiDefaultURL,
		Client:  newHTTPClient(),
		now:     time.Now,
	}
}

// Name implements Provider.
func (s *SerpAPI) Name() string { return "serpapi" }

// Free implements Provider.
func (s *SerpAPI) Free() bool { return false }

type serpapiJob struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	Via                string `json:"via"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"`
	} `json:"detected_extensions"`
	RelatedLinks []struct {
		Link string `json:"link"`
	} `json:"related_links"`
}

type serpapiResponse struct {
	JobsResults    []serpapiJob      `json:"jobs_results"`
	OrganicResults []json.RawMessage `json:"organic_results"`
	Error          string            `json:"error"`
}

// Search implements Provider.
func (s *SerpAPI) Search(ctx context.Context, query, locale string, maxResults int) ([]types.JobPosting, error) {
	if s.APIKey == "" {
		return nil, &Error{Provider: s.Name(), Message: "API key not configured"}
	}
	if maxResults > serpapiMaxResults {
		maxResults = serpapiMaxResults
	}

	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", query)
	params.Set("api_key", s.APIKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("hl", "en")
	if locale != "" {
		params.Set("location", locale)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Provider: s.Name(), Message: "failed to create request", Cause: err}
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &Error{Provider: s.Name(), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(s.Name(), resp); err != nil {
		return nil, err
	}

	var payload serpapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Provider: s.Name(), Message: "malformed response", Cause: err}
	}
	if payload.Error != "" {
		return nil, &Error{Provider: s.Name(), Message: payload.Error}
	}

	if payload.JobsResults == nil {
		got := "empty payload"
		if len(payload.OrganicResults) > 0 {
			got = fmt.Sprintf("%d organic web results", len(payload.OrganicResults))
		}
		return nil, &WrongShapeError{Provider: s.Name(), Got: got}
	}

	jobs := make([]types.JobPosting, 0, len(payload.JobsResults))
	for i, j := range payload.JobsResults {
		if i >= maxResults {
			break
		}
		if j.Title == "" {
			continue
		}
		company := j.CompanyName
		if company == "" {
			company = types.UnknownCompany
		}
		applyURL := ""
		if len(j.RelatedLinks) > 0 {
			applyURL = j.RelatedLinks[0].Link
		}
		source := "Google Jobs (SerpAPI)"
		if j.Via != "" {
			source = "Google Jobs (" + j.Via + ")"
		}
		summary := truncateSummary(j.Description, 500)
		jobs = append(jobs, types.JobPosting{
			Title:      j.Title,
			Company:    company,
			Summary:    summary,
			Location:   j.Location,
			PostedDate: ParseRelativeDate(j.DetectedExtensions.PostedAt, s.now()),
			ApplyURL:   applyURL,
			Source:     source,
		})
	}
	return jobs, nil
}
