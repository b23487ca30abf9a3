// Package scrape calls the job-board scraper sidecar. The sidecar wraps the
// actual board scrapers behind a single POST /scrape endpoint and returns
// normalised rows; this client owns platform filtering and description
// fallbacks so the rest of the service only ever sees clean postings.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no scraper service URL is set.
var ErrNotConfigured = errors.New("scrape: no scraper service configured")

// descriptionCap bounds posting descriptions before they are stored or fed to
// the LLM. Boards occasionally return 50k+ character listings.
const descriptionCap = 6000

var defaultPlatforms = []string{"linkedin", "indeed", "glassdoor", "zip_recruiter"}

var supportedPlatforms = map[string]struct{}{
	"linkedin":      {},
	"indeed":        {},
	"glassdoor":     {},
	"zip_recruiter": {},
}

// Posting is one scraped job listing, normalised for the pipeline.
type Posting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
	DatePosted  string `json:"date_posted"`
}

// Query describes one scrape run.
type Query struct {
	Keywords       string
	Location       string
	Platforms      []string
	ResultsPerSite int
	HoursOld       int
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		// Scraping four boards with descriptions takes a while.
		httpc = &http.Client{Timeout: 120 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpc,
		log:     log,
	}
}

// Configured reports whether a scraper service URL was provided.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type scrapeRequest struct {
	SearchTerm               string   `json:"search_term"`
	Location                 string   `json:"location"`
	SiteName                 []string `json:"site_name"`
	ResultsWanted            int      `json:"results_wanted"`
	HoursOld                 int      `json:"hours_old"`
	CountryIndeed            string   `json:"country_indeed"`
	LinkedinFetchDescription bool     `json:"linkedin_fetch_description"`
}

type scrapedRow struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	JobURL      string  `json:"job_url"`
	Description string  `json:"description"`
	Site        string  `json:"site"`
	DatePosted  string  `json:"date_posted"`
	JobType     string  `json:"job_type"`
	MinAmount   float64 `json:"min_amount"`
	MaxAmount   float64 `json:"max_amount"`
}

// Scrape runs one search across the requested platforms and returns the
// normalised postings.
func (c *Client) Scrape(ctx context.Context, q Query) ([]Posting, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	platforms := normalizePlatforms(q.Platforms)
	payload, err := json.Marshal(scrapeRequest{
		SearchTerm:               q.Keywords,
		Location:                 q.Location,
		SiteName:                 platforms,
		ResultsWanted:            q.ResultsPerSite,
		HoursOld:                 q.HoursOld,
		CountryIndeed:            "USA",
		LinkedinFetchDescription: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call scraper service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read scraper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Jobs []scrapedRow `json:"jobs"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode scraper response: %w", err)
	}

	postings := make([]Posting, 0, len(decoded.Jobs))
	for _, row := range decoded.Jobs {
		postings = append(postings, Posting{
			Title:       nanToEmpty(row.Title),
			Company:     nanToEmpty(row.Company),
			Location:    nanToEmpty(row.Location),
			URL:         nanToEmpty(row.JobURL),
			Description: describeRow(row),
			Platform:    strings.ToLower(nanToEmpty(row.Site)),
			DatePosted:  nanToEmpty(row.DatePosted),
		})
	}

	c.log.Info("scrape complete",
		zap.String("search", q.Keywords),
		zap.Strings("platforms", platforms),
		zap.Int("postings", len(postings)))
	return postings, nil
}

// normalizePlatforms lowercases and filters the requested platforms. No
// request at all means every supported board; a request that filters down to
// nothing falls back to indeed alone rather than silently scraping everything.
func normalizePlatforms(in []string) []string {
	if len(in) == 0 {
		return defaultPlatforms
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.ToLower(strings.TrimSpace(p))
		if _, ok := supportedPlatforms[p]; ok {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"indeed"}
	}
	return out
}

// describeRow returns the posting description, synthesising one from the job
// type and salary range when the board did not provide text.
func describeRow(row scrapedRow) string {
	desc := nanToEmpty(row.Description)
	if desc == "" {
		var parts []string
		if t := nanToEmpty(row.JobType); t != "" {
			parts = append(parts, "Type: "+t)
		}
		if row.MinAmount > 0 && row.MaxAmount > 0 {
			parts = append(parts, fmt.Sprintf("Salary: $%.0f - $%.0f", row.MinAmount, row.MaxAmount))
		}
		desc = strings.Join(parts, " | ")
		if desc == "" {
			desc = "No description available"
		}
	}
	if len(desc) > descriptionCap {
		desc = desc[:descriptionCap]
	}
	return desc
}

// SearchTerm returns the query keywords, falling back to the head of the
// resume when the user did not provide any. Empty means there is nothing to
// search with.
func SearchTerm(keywords, resume string) string {
	if keywords = strings.TrimSpace(keywords); keywords != "" {
		return keywords
	}
	resume = strings.TrimSpace(resume)
	if len(resume) > 80 {
		resume = resume[:80]
	}
	return resume
}

// nanToEmpty drops the literal "nan" strings some boards emit for missing
// fields.
func nanToEmpty(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
