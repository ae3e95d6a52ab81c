package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// ObserveEnabled reports whether JSONL event emission is enabled.
func ObserveEnabled() bool {
	return os.Getenv("SSG_OBSERVE_JSON") == "1"
}

// Emit writes a single JSON line to .searchsage/events.jsonl when
// SSG_OBSERVE_JSON=1. It augments fields with RFC3339Nano time and the
// event name.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		log.Warn().Err(err).Str("event", name).Msg("telemetry: marshal")
		return
	}

	dir := ".searchsage"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("telemetry: mkdir")
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("telemetry: open")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("telemetry: write")
	}
}
