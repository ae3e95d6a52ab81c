package session

import (
	"encoding/json"
	"errors"
	"os"
)

// Role tags a turn's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in the conversation. Immutable once
// appended; ordering is chronological.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session owns the append-only history of one interactive session. It is
// passed explicitly into the turn loop; there is no ambient global state.
type Session struct {
	turns []Turn
}

// New returns a session seeded with prior turns (may be nil).
func New(prior []Turn) *Session {
	s := &Session{}
	s.turns = append(s.turns, prior...)
	return s
}

// Append records a turn at the end of the history.
func (s *Session) Append(role Role, content string) {
	s.turns = append(s.turns, Turn{Role: role, Content: content})
}

// Turns returns a snapshot of the history, oldest first. Mutating the
// returned slice does not affect the session.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len reports the number of turns recorded so far.
func (s *Session) Len() int { return len(s.turns) }

// Load reads a persisted transcript. A missing file yields an empty history.
func Load(path string) ([]Turn, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var turns []Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// Save writes the transcript so a restarted session can resume it.
func Save(path string, turns []Turn) error {
	b, err := json.MarshalIndent(turns, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
