package providers

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// RSSFeed reads a job-board RSS 2.0 feed (WeWorkRemotely, RemoteOK).
// Always on: no API key, no quota. RSS feeds are not query-driven, so
// Search filters items against the query terms locally.
type RSSFeed struct {
	FeedName string
	URL      string
	Client   *http.Client
}

// DefaultFeeds returns the feeds the original tool subscribed to.
func DefaultFeeds() []*RSSFeed {
	return []*RSSFeed{
		NewRSSFeed("WeWorkRemotely", "https://weworkremotely.com/remote-jobs.rss"),
		NewRSSFeed("RemoteOK", "https://remoteok.com/remote-jobs.rss"),
	}
}

// NewRSSFeed creates an adapter for one feed URL.
func NewRSSFeed(name, feedURL string) *RSSFeed {
	return &RSSFeed{FeedName: name, URL: feedURL, Client: newHTTPClient()}
}

// Name implements Provider.
func (r *RSSFeed) Name() string { return "rss:" + strings.ToLower(r.FeedName) }

// Free implements Provider.
func (r *RSSFeed) Free() bool { return true }

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Region      string `xml:"region"`
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

// Search implements Provider.
func (r *RSSFeed) Search(ctx context.Context, query, _ string, maxResults int) ([]types.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
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

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &Error{Provider: r.Name(), Message: "malformed feed", Cause: err}
	}
	if doc.Channel.Items == nil {
		return nil, &WrongShapeError{Provider: r.Name(), Got: "document without channel items"}
	}

	terms := queryTerms(query)
	jobs := make([]types.JobPosting, 0, maxResults)
	for _, item := range doc.Channel.Items {
		if len(jobs) >= maxResults {
			break
		}
		company, title := splitFeedTitle(item.Title)
		summary := StripHTML(item.Description)
		if !matchesTerms(title+" "+summary, terms) {
			continue
		}
		summary = truncateSummary(summary, 500)
		jobs = append(jobs, types.JobPosting{
			Title:      title,
			Company:    company,
			Summary:    summary,
			Location:   strings.TrimSpace(item.Region),
			PostedDate: parsePubDate(item.PubDate),
			ApplyURL:   strings.TrimSpace(item.Link),
			Source:     r.FeedName,
		})
	}
	return jobs, nil
}

// splitFeedTitle extracts company and role from the "Company: Role Title"
// convention both feeds use. Without a separator the company is unknown.
func splitFeedTitle(title string) (company, role string) {
	title = strings.TrimSpace(title)
	if idx := strings.Index(title, ": "); idx > 0 && idx < 60 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+2:])
	}
	return types.UnknownCompany, title
}

func parsePubDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// queryTerms lowers and splits a query, dropping short filler words so feed
// filtering keys on the meaningful terms.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 2 {
			terms = append(terms, w)
		}
	}
	return terms
}

// matchesTerms reports whether any query term occurs in the text. An empty
// term list matches everything.
func matchesTerms(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
