package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Serper searches Google Jobs through serper.dev. Primary provider:
// generous free tier, fast responses.
type Serper struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	now     func() time.Time
}

const serperDefaultURL = "https://google.serper.dev/jobs"

// NewSerper creates the Serper adapter.
func NewSerper(apiKey string) *Serper {
	return &Serper{
		APIKey:  apiKey,
		BaseURL: serperDefaultURL,
		Client:  newHTTPClient(),
		now:     time.Now,
	}
}

// Name implements Provider.
func (s *Serper) Name() string { return "serper" }

// Free implements Provider.
func (s *Serper) Free() bool { return false }

type serperRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl,omitempty"`
	HL  string `json:"hl"`
	Num int    `json:"num"`
}

type serperJob struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Date        string `json:"date"` // "3 days ago"
}

type serperResponse struct {
	Jobs    []serperJob       `json:"jobs"`
	Organic []json.RawMessage `json:"organic"` // present only on web-search-shaped responses
}

// Search implements Provider.
func (s *Serper) Search(ctx context.Context, query, locale string, maxResults int) ([]types.JobPosting, error) {
	if s.APIKey == "" {
		return nil, &Error{Provider: s.Name(), Message: "API key not configured"}
	}

	body, err := json.Marshal(serperRequest{Q: query, GL: locale, HL: "en", Num: maxResults})
	if err != nil {
		return nil, &Error{Provider: s.Name(), Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: s.Name(), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &Error{Provider: s.Name(), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(s.Name(), resp); err != nil {
		return nil, err
	}

	var payload serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Provider: s.Name(), Message: "malformed response", Cause: err}
	}

	// A response carrying organic web results instead of a jobs array means
	// the wrong endpoint answered. Refuse to fabricate postings from it.
	if payload.Jobs == nil {
		got := "empty payload"
		if len(payload.Organic) > 0 {
			got = fmt.Sprintf("%d organic web results", len(payload.Organic))
		}
		return nil, &WrongShapeError{Provider: s.Name(), Got: got}
	}

	jobs := make([]types.JobPosting, 0, len(payload.Jobs))
	for i, j := range payload.Jobs {
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
		jobs = append(jobs, types.JobPosting{
			Title:      j.Title,
			Company:    company,
			Summary:    j.Description,
			Location:   j.Location,
			PostedDate: ParseRelativeDate(j.Date, s.now()),
			ApplyURL:   j.Link,
			Source:     "Google Jobs (Serper)",
		})
	}
	return jobs, nil
}
