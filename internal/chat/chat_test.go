package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/searchsage/searchsage/internal/chat"
	"github.com/searchsage/searchsage/internal/config"
	"github.com/searchsage/searchsage/session"
)

// scriptedTransport returns canned responses in order, capturing each
// request body. The last response repeats once the script is exhausted.
type scriptedTransport struct {
	responses []scriptedResponse
	requests  [][]byte
	calls     int
}

type scriptedResponse struct {
	status int
	body   []byte
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	s.requests = append(s.requests, b)

	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++

	r := s.responses[idx]
	resp := &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(bytes.NewReader(r.body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// failIfCalled trips the test on any HTTP traffic.
type failIfCalled struct{ t *testing.T }

func (f failIfCalled) RoundTrip(req *http.Request) (*http.Response, error) {
	f.t.Errorf("unexpected HTTP request to %s", req.URL)
	return nil, io.ErrUnexpectedEOF
}

func newClient(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
	)
	return &c
}

func textMsg(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"role":    "assistant",
		"content": []map[string]any{{"type": "text", "text": text}},
	})
	return b
}

func baseConfig() config.Config {
	return config.Config{
		AnthropicAPIKey: "ak",
		MaxAgentSteps:   10,
		TokenBudget:     50_000,
	}
}

func TestTurn_MissingLLMKeyShortCircuits(t *testing.T) {
	cfg := baseConfig()
	cfg.AnthropicAPIKey = ""
	a := chat.NewWithClient(cfg, newClient(failIfCalled{t}))
	sess := session.New(nil)

	reply := a.Turn(context.Background(), sess, "What is the capital of France?", nil)

	if reply.Content != chat.MissingLLMKeyMessage {
		t.Fatalf("reply: got %q", reply.Content)
	}
	turns := sess.Turns()
	if len(turns) != 2 {
		t.Fatalf("history length: got %d want 2", len(turns))
	}
	if turns[0].Role != session.RoleUser || turns[1].Role != session.RoleAssistant {
		t.Fatalf("roles: %+v", turns)
	}
	if turns[1].Content != chat.MissingLLMKeyMessage {
		t.Fatalf("assistant turn: %q", turns[1].Content)
	}
}

func TestTurn_AppendsUserAndAssistantTurns(t *testing.T) {
	st := &scriptedTransport{responses: []scriptedResponse{
		{200, textMsg("What is the capital of France?")}, // reformulation
		{200, textMsg("The capital of France is Paris.")}, // agent final answer
	}}
	a := chat.NewWithClient(baseConfig(), newClient(st))
	sess := session.New(nil)

	reply := a.Turn(context.Background(), sess, "What is the capital of France?", nil)

	if !strings.Contains(reply.Content, "Paris") {
		t.Fatalf("reply: got %q", reply.Content)
	}
	if sess.Len() != 2 {
		t.Fatalf("history length: got %d want 2", sess.Len())
	}
	if st.calls != 2 {
		t.Fatalf("expected reformulation + one agent call, got %d", st.calls)
	}
	// The reformulation request carries the empty-history placeholder.
	if !bytes.Contains(st.requests[0], []byte("No prior conversation.")) {
		t.Fatalf("first request missing placeholder: %s", st.requests[0])
	}
}

func TestTurn_PriorHistoryReachesReformulator(t *testing.T) {
	st := &scriptedTransport{responses: []scriptedResponse{
		{200, textMsg("When was William Shakespeare born?")},
		{200, textMsg("Shakespeare was born in 1564.")},
	}}
	a := chat.NewWithClient(baseConfig(), newClient(st))
	sess := session.New([]session.Turn{
		{Role: session.RoleUser, Content: "Who wrote Hamlet?"},
		{Role: session.RoleAssistant, Content: "William Shakespeare"},
	})

	var reformulated string
	ev := &captureEvents{onReformulated: func(s string) { reformulated = s }}
	a.Turn(context.Background(), sess, "When was he born?", ev)

	if !bytes.Contains(st.requests[0], []byte("User: Who wrote Hamlet?")) ||
		!bytes.Contains(st.requests[0], []byte("Assistant: William Shakespeare")) {
		t.Fatalf("reformulation request missing transcript: %s", st.requests[0])
	}
	if !strings.Contains(reformulated, "Shakespeare") {
		t.Fatalf("standalone question should name the subject, got %q", reformulated)
	}
	// The agent request carries the standalone question, not the raw one.
	if !bytes.Contains(st.requests[1], []byte("When was William Shakespeare born?")) {
		t.Fatalf("agent request missing standalone question: %s", st.requests[1])
	}
	if sess.Len() != 4 {
		t.Fatalf("history length: got %d want 4", sess.Len())
	}
}

func TestTurn_ReformulationFailureFallsBackToRawInput(t *testing.T) {
	st := &scriptedTransport{responses: []scriptedResponse{
		{400, []byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)},
		{200, textMsg("Answer anyway.")},
	}}
	a := chat.NewWithClient(baseConfig(), newClient(st))
	sess := session.New(nil)

	reply := a.Turn(context.Background(), sess, "What is the capital of France?", nil)

	if strings.HasPrefix(reply.Content, "Error during agent run:") {
		t.Fatalf("reformulation failure must be invisible, got %q", reply.Content)
	}
	// The agent request carries the raw question unchanged.
	if !bytes.Contains(st.requests[len(st.requests)-1], []byte("What is the capital of France?")) {
		t.Fatalf("agent request missing raw question: %s", st.requests[len(st.requests)-1])
	}
}

func TestTurn_AgentFailureBecomesErrorTurn(t *testing.T) {
	st := &scriptedTransport{responses: []scriptedResponse{
		{200, textMsg("standalone")},
		{400, []byte(`{"type":"error","error":{"type":"invalid_request_error","message":"boom"}}`)},
	}}
	a := chat.NewWithClient(baseConfig(), newClient(st))
	sess := session.New(nil)

	reply := a.Turn(context.Background(), sess, "q", nil)

	if !strings.HasPrefix(reply.Content, "Error during agent run:") {
		t.Fatalf("expected error turn, got %q", reply.Content)
	}
	// The failed turn still completes the cycle; the next turn proceeds.
	if sess.Len() != 2 {
		t.Fatalf("history length: got %d want 2", sess.Len())
	}
}

func TestTurn_HistoryGrowsByTwoPerTurn(t *testing.T) {
	st := &scriptedTransport{responses: []scriptedResponse{{200, textMsg("answer")}}}
	a := chat.NewWithClient(baseConfig(), newClient(st))
	sess := session.New(nil)

	const n = 3
	for i := 0; i < n; i++ {
		a.Turn(context.Background(), sess, "q", nil)
	}
	if sess.Len() != 2*n {
		t.Fatalf("history length after %d turns: got %d want %d", n, sess.Len(), 2*n)
	}
	for i, turn := range sess.Turns() {
		wantRole := session.RoleUser
		if i%2 == 1 {
			wantRole = session.RoleAssistant
		}
		if turn.Role != wantRole {
			t.Fatalf("turn %d role: got %q want %q", i, turn.Role, wantRole)
		}
	}
}

type captureEvents struct {
	onReformulated func(string)
}

func (c *captureEvents) Reformulated(s string) {
	if c.onReformulated != nil {
		c.onReformulated(s)
	}
}
func (c *captureEvents) Thought(string)                  {}
func (c *captureEvents) ToolCall(string, string)         {}
func (c *captureEvents) ToolResult(string, string, bool) {}
