package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/searchsage/searchsage/internal/config"
	"github.com/searchsage/searchsage/internal/provider"
	"github.com/searchsage/searchsage/internal/reformulate"
	"github.com/searchsage/searchsage/internal/runner"
	"github.com/searchsage/searchsage/internal/telemetry"
	"github.com/searchsage/searchsage/session"
	"github.com/searchsage/searchsage/tools"
)

// MissingLLMKeyMessage is the fixed assistant turn shown when the LLM
// credential is absent.
const MissingLLMKeyMessage = "Anthropic API key is missing. Set ANTHROPIC_API_KEY and try again."

// Events extends the runner's observer with turn-level notifications.
type Events interface {
	runner.Observer
	// Reformulated fires when the standalone question differs from the
	// raw input. Display only.
	Reformulated(standalone string)
}

// Assistant processes turns: gate, reformulate, run the agent, append the
// result. One instance serves one interactive session.
type Assistant struct {
	cfg          config.Config
	client       *anthropic.Client
	model        anthropic.Model
	reformulator *reformulate.Reformulator
}

// New builds an assistant with a client configured from cfg.
func New(cfg config.Config) *Assistant {
	return NewWithClient(cfg, provider.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.CallTimeout))
}

// NewWithClient builds an assistant around an existing client. Used by tests
// to substitute the HTTP transport.
func NewWithClient(cfg config.Config, client *anthropic.Client) *Assistant {
	model := provider.ResolveModel(cfg.Model)
	return &Assistant{
		cfg:          cfg,
		client:       client,
		model:        model,
		reformulator: reformulate.New(client, model),
	}
}

// Turn runs one full turn cycle for input and returns the assistant turn.
// The session always gains exactly one user and one assistant turn, error
// paths included; no failure is fatal to the session.
func (a *Assistant) Turn(ctx context.Context, sess *session.Session, input string, ev Events) session.Turn {
	prior := sess.Turns()
	sess.Append(session.RoleUser, input)

	// Credential gate: without the LLM key no network call is made.
	if !a.cfg.HasLLM() {
		sess.Append(session.RoleAssistant, MissingLLMKeyMessage)
		return session.Turn{Role: session.RoleAssistant, Content: MissingLLMKeyMessage}
	}

	turnID := fmt.Sprintf("turn-%d", time.Now().UnixNano())
	ctx = telemetry.WithTurnID(ctx, turnID)
	telemetry.Emit("turn_start", map[string]any{"turn_id": turnID})

	standalone := a.reformulator.Standalone(ctx, prior, input)
	telemetry.EmitQuestionFeatures(ctx, input, standalone)
	if ev != nil && standalone != input {
		ev.Reformulated(standalone)
	}

	answer := a.answer(ctx, standalone, ev)
	sess.Append(session.RoleAssistant, answer)
	telemetry.Emit("turn_done", map[string]any{"turn_id": turnID})
	return session.Turn{Role: session.RoleAssistant, Content: answer}
}

// answer builds the per-turn tool registry and runs the agent. Failures
// surface as the answer text.
func (a *Assistant) answer(ctx context.Context, question string, ev Events) string {
	var obs runner.Observer
	if ev != nil {
		obs = ev
	}
	r, err := runner.New(a.client, tools.Registry(a.cfg), a.cfg.MaxAgentSteps, a.cfg.TokenBudget)
	if err != nil {
		return fmt.Sprintf("Error during agent run: %v", err)
	}
	answer, err := r.Run(ctx, a.model, question, obs)
	if err != nil {
		return fmt.Sprintf("Error during agent run: %v", err)
	}
	return answer
}
