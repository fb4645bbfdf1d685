package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Remotive queries the free remotive.com remote-jobs API. Always on: no
// API key, no quota.
type Remotive struct {
	BaseURL string
	Client  *http.Client
}

const remotiveDefaultURL = "https://remotive.com/api/remote-jobs"

// NewRemotive creates the Remotive adapter.
func NewRemotive() *Remotive {
	return &Remotive{BaseURL: remotiveDefaultURL, Client: newHTTPClient()}
}

// Name implements Provider.
func (r *Remotive) Name() string { return "remotive" }

// Free implements Provider.
func (r *Remotive) Free() bool { return true }

type remotiveJob struct {
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Description               string `json:"description"` // HTML
	PublicationDate           string `json:"publication_date"`
	URL                       string `json:"url"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// Search implements Provider.
func (r *Remotive) Search(ctx context.Context, query, _ string, maxResults int) ([]types.JobPosting, error) {
	params := url.Values{}
	params.Set("search", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Provider: r.Name(), Message: "failed to create request", Cause: err}
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &Error{Provider: r.Name(), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(r.Name(), resp); err != nil {
		return nil, err
	}

	var payload remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Provider: r.Name(), Message: "malformed response", Cause: err}
	}
	if payload.Jobs == nil {
		return nil, &WrongShapeError{Provider: r.Name(), Got: "payload without jobs array"}
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
		summary := truncateSummary(StripHTML(j.Description), 500)
		jobs = append(jobs, types.JobPosting{
			Title:      j.Title,
			Company:    company,
			Summary:    summary,
			Location:   j.CandidateRequiredLocation,
			PostedDate: ParseISODate(j.PublicationDate),
			ApplyURL:   j.URL,
			Source:     "Remotive",
		})
	}
	return jobs, nil
}

// StripHTML reduces an HTML fragment to whitespace-normalized plain text.
// Unparseable input falls back to the raw string.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
