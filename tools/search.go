package tools

import (
	"context"
	"encoding/json"

	"github.com/searchsage/searchsage/internal/lookup"
)

type SearchInput struct {
	Query string `json:"query" jsonschema_description:"The search query to run against Google."`
}

var SearchInputSchema = GenerateSchema[SearchInput]()

// SearchDefinition wraps live web search. Only registered when the SerpAPI
// credential is present.
func SearchDefinition(client *lookup.SerpAPI) ToolDefinition {
	return ToolDefinition{
		Name:        "search",
		Description: "Search Google for current information and news. Use this for anything recent or outside encyclopedic knowledge.",
		InputSchema: SearchInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in SearchInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return client.Search(ctx, in.Query)
		},
	}
}
