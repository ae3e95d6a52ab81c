package provider

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropicClient returns a client authenticated with the given API key.
// Every request is bounded by timeout so a stalled call cannot hang a turn.
func NewAnthropicClient(apiKey string, timeout time.Duration) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
	)
	return &c
}

// DefaultModel is used when SSG_MODEL is not set. The model identifier is
// fixed configuration, never derived per turn.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// ResolveModel maps the configured model string to an SDK model identifier,
// falling back to DefaultModel when unset.
func ResolveModel(configured string) anthropic.Model {
	if configured == "" {
		return DefaultModel
	}
	return anthropic.Model(configured)
}
