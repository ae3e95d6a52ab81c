package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/searchsage/searchsage/internal/lookup"
	"github.com/searchsage/searchsage/internal/metrics"
)

type ArxivInput struct {
	Query string `json:"query" jsonschema_description:"Topic, title, or author to look up on arXiv."`
}

var ArxivInputSchema = GenerateSchema[ArxivInput]()

// ArxivDefinition wraps arXiv paper lookup. Results are capped at the top
// paper with its summary clamped to docContentCharsMax characters.
func ArxivDefinition(client *lookup.Arxiv) ToolDefinition {
	return ToolDefinition{
		Name:        "arxiv",
		Description: "Look up scientific papers on arXiv by topic, title, or author. Returns the best-matching paper with a short summary.",
		InputSchema: ArxivInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in ArxivInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			papers, err := client.Query(ctx, in.Query, topKResults)
			if err != nil {
				return "", err
			}
			parts := make([]string, 0, len(papers))
			for _, p := range papers {
				summary, _ := metrics.ClampRunes(p.Summary, docContentCharsMax)
				parts = append(parts, fmt.Sprintf(
					"Published: %s\nTitle: %s\nAuthors: %s\nSummary: %s",
					p.Published, p.Title, strings.Join(p.Authors, ", "), summary,
				))
			}
			return strings.Join(parts, "\n\n"), nil
		},
	}
}
