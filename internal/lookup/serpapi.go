package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultSerpAPIBaseURL = "https://serpapi.com"

// SerpAPI queries Google through the SerpAPI service. An API key is required.
type SerpAPI struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewSerpAPI constructs a SerpAPI client with a modest timeout.
func NewSerpAPI(apiKey string) *SerpAPI {
	return NewSerpAPIWithClient(apiKey, &http.Client{Timeout: 15 * time.Second})
}

// NewSerpAPIWithClient constructs a SerpAPI client using the supplied HTTP
// client. This is useful for overriding the default timeout.
func NewSerpAPIWithClient(apiKey string, client *http.Client) *SerpAPI {
	return &SerpAPI{APIKey: apiKey, BaseURL: defaultSerpAPIBaseURL, client: client}
}

// serpResponse covers the fields we read from a SerpAPI search payload.
type serpResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search runs a Google query and returns a short text answer: the answer-box
// content when present, otherwise the first organic result.
func (s *SerpAPI) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return "", errors.New("serpapi: API key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return "", errors.New("serpapi: query is empty")
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.APIKey)
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, "serpapi: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "serpapi: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serpapi http %d", resp.StatusCode)
	}

	var payload serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "serpapi: decode response")
	}
	if payload.Error != "" {
		return "", fmt.Errorf("serpapi: %s", payload.Error)
	}

	if payload.AnswerBox.Answer != "" {
		return payload.AnswerBox.Answer, nil
	}
	if payload.AnswerBox.Snippet != "" {
		return payload.AnswerBox.Snippet, nil
	}
	if len(payload.OrganicResults) > 0 {
		r := payload.OrganicResults[0]
		return strings.TrimSpace(r.Title + "\n" + r.Snippet), nil
	}
	return "", errors.New("serpapi: no results")
}
