package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultArxivBaseURL = "http://export.arxiv.org"

// Arxiv fetches paper metadata from the public arXiv Atom export API.
// No API key is required.
type Arxiv struct {
	BaseURL string
	client  *http.Client
}

// NewArxiv constructs an Arxiv client with a modest timeout.
func NewArxiv() *Arxiv {
	return NewArxivWithClient(&http.Client{Timeout: 15 * time.Second})
}

// NewArxivWithClient constructs an Arxiv client using the supplied HTTP client.
func NewArxivWithClient(client *http.Client) *Arxiv {
	return &Arxiv{BaseURL: defaultArxivBaseURL, client: client}
}

// Paper is one arXiv result.
type Paper struct {
	Title     string
	Published string
	Authors   []string
	Summary   string
}

// atomFeed covers the fields we read from the arXiv Atom payload.
type atomFeed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title     string `xml:"title"`
		Published string `xml:"published"`
		Summary   string `xml:"summary"`
		Authors   []struct {
			Name string `xml:"name"`
		} `xml:"author"`
	} `xml:"entry"`
}

// Query searches arXiv and returns up to maxResults papers.
func (a *Arxiv) Query(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("arxiv: query is empty")
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	endpoint := strings.TrimRight(a.BaseURL, "/") + "/api/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "arxiv: build request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "arxiv: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv http %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, errors.Wrap(err, "arxiv: decode feed")
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := Paper{
			Title:     collapseWhitespace(e.Title),
			Published: strings.TrimSpace(e.Published),
			Summary:   collapseWhitespace(e.Summary),
		}
		for _, au := range e.Authors {
			if name := strings.TrimSpace(au.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		papers = append(papers, p)
		if len(papers) >= maxResults {
			break
		}
	}
	if len(papers) == 0 {
		return nil, errors.New("arxiv: no results")
	}
	return papers, nil
}

// collapseWhitespace normalises the newline-wrapped text arXiv returns into
// single-spaced prose.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
