package telemetry

import "context"

type ctxKey int

const turnIDKey ctxKey = iota

// WithTurnID attaches a turn ID to ctx so downstream emitters can correlate
// events belonging to the same turn.
func WithTurnID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnIDKey, id)
}

// TurnIDFromContext extracts the turn ID, reporting false when none was
// attached or the attached value is empty.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(turnIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
