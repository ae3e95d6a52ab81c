package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org"

// Wikipedia searches articles and fetches plain-text intro extracts via the
// MediaWiki API. No API key is required.
type Wikipedia struct {
	BaseURL string
	client  *http.Client
}

// NewWikipedia constructs a Wikipedia client with a modest timeout.
func NewWikipedia() *Wikipedia {
	return NewWikipediaWithClient(&http.Client{Timeout: 15 * time.Second})
}

// NewWikipediaWithClient constructs a Wikipedia client using the supplied HTTP client.
func NewWikipediaWithClient(client *http.Client) *Wikipedia {
	return &Wikipedia{BaseURL: defaultWikipediaBaseURL, client: client}
}

// Page is one article summary.
type Page struct {
	Title   string
	Extract string
}

// Summary finds the best-matching articles for query and returns up to
// maxResults pages with their intro extracts. Two API round-trips: a title
// search followed by an extracts query for the hits.
func (w *Wikipedia) Summary(ctx context.Context, query string, maxResults int) ([]Page, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("wikipedia: query is empty")
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	titles, err := w.searchTitles(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, errors.New("wikipedia: no results")
	}
	return w.extracts(ctx, titles)
}

func (w *Wikipedia) searchTitles(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("format", "json")

	var payload struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := w.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(payload.Query.Search))
	for _, hit := range payload.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

func (w *Wikipedia) extracts(ctx context.Context, titles []string) ([]Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("format", "json")

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := w.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	// The pages map is keyed by page ID; restore the search order by title.
	byTitle := make(map[string]string, len(payload.Query.Pages))
	for _, p := range payload.Query.Pages {
		byTitle[p.Title] = strings.TrimSpace(p.Extract)
	}
	pages := make([]Page, 0, len(titles))
	for _, title := range titles {
		if extract, ok := byTitle[title]; ok {
			pages = append(pages, Page{Title: title, Extract: extract})
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("wikipedia: no extracts")
	}
	return pages, nil
}

func (w *Wikipedia) get(ctx context.Context, params url.Values, out any) error {
	endpoint := strings.TrimRight(w.BaseURL, "/") + "/w/api.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "wikipedia: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "wikipedia: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "wikipedia: decode response")
	}
	return nil
}
