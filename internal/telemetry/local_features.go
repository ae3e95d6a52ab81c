package telemetry

import (
	"context"

	"github.com/searchsage/searchsage/internal/metrics"
)

// EmitQuestionFeatures records local text features of the raw and the
// reformulated question for a turn. No content is emitted, only counts.
func EmitQuestionFeatures(ctx context.Context, raw, standalone string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	rf := metrics.CountFeatures(raw)
	sf := metrics.CountFeatures(standalone)
	Emit("question_features", map[string]any{
		"turn_id":      turnID,
		"reformulated": raw != standalone,
		"raw": map[string]any{
			"bytes": rf.Bytes, "runes": rf.Runes, "words": rf.Words, "lines": rf.Lines,
		},
		"standalone": map[string]any{
			"bytes": sf.Bytes, "runes": sf.Runes, "words": sf.Words, "lines": sf.Lines,
		},
	})
}
