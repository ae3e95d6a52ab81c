package tools

import (
	"github.com/searchsage/searchsage/internal/config"
	"github.com/searchsage/searchsage/internal/lookup"
)

// Result caps shared by the knowledge-base tools. Web search results are
// already single short answers and are not clamped.
const (
	topKResults        = 1
	docContentCharsMax = 200
)

// Registry returns the tool definitions wired for the agent, in a fixed
// order. The search tool is included only when its credential is present;
// arxiv and wikipedia need no key and are always available.
func Registry(cfg config.Config) []ToolDefinition {
	defs := make([]ToolDefinition, 0, 3)
	if cfg.HasSearch() {
		defs = append(defs, SearchDefinition(lookup.NewSerpAPI(cfg.SerpAPIKey)))
	}
	defs = append(defs,
		ArxivDefinition(lookup.NewArxiv()),
		WikipediaDefinition(lookup.NewWikipedia()),
	)
	return defs
}
