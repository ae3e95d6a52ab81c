package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/searchsage/searchsage/internal/lookup"
	"github.com/searchsage/searchsage/internal/metrics"
)

type WikipediaInput struct {
	Query string `json:"query" jsonschema_description:"Subject to look up on Wikipedia."`
}

var WikipediaInputSchema = GenerateSchema[WikipediaInput]()

// WikipediaDefinition wraps Wikipedia article lookup. Results are capped at
// the top page with its extract clamped to docContentCharsMax characters.
func WikipediaDefinition(client *lookup.Wikipedia) ToolDefinition {
	return ToolDefinition{
		Name:        "wikipedia",
		Description: "Look up encyclopedic facts on Wikipedia. Returns the best-matching article with a short summary.",
		InputSchema: WikipediaInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in WikipediaInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			pages, err := client.Summary(ctx, in.Query, topKResults)
			if err != nil {
				return "", err
			}
			parts := make([]string, 0, len(pages))
			for _, p := range pages {
				extract, _ := metrics.ClampRunes(p.Extract, docContentCharsMax)
				parts = append(parts, fmt.Sprintf("Page: %s\nSummary: %s", p.Title, extract))
			}
			return strings.Join(parts, "\n\n"), nil
		},
	}
}
