package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/pkg/errors"

	"github.com/searchsage/searchsage/internal/telemetry"
	"github.com/searchsage/searchsage/internal/windowing"
	"github.com/searchsage/searchsage/tools"
)

// Observer receives per-step notifications during a run, for UI display.
// Implementations must not affect control flow; the run's outcome is the
// same with or without one.
type Observer interface {
	Thought(text string)
	ToolCall(name, input string)
	ToolResult(name, output string, isError bool)
}

type noopObserver struct{}

func (noopObserver) Thought(string)                  {}
func (noopObserver) ToolCall(string, string)         {}
func (noopObserver) ToolResult(string, string, bool) {}

// Runner drives the reason-act loop: each step the model either requests
// tool invocations or emits the final answer.
type Runner struct {
	Client      *anthropic.Client
	Tools       []tools.ToolDefinition
	MaxSteps    int
	TokenBudget int

	byName map[string]*tools.ToolDefinition
}

// New builds a runner and validates the tool set up front: names must be
// non-empty and unique so dispatch never resolves ambiguously mid-run.
func New(client *anthropic.Client, defs []tools.ToolDefinition, maxSteps, tokenBudget int) (*Runner, error) {
	if maxSteps <= 0 {
		return nil, errors.New("runner: max steps must be positive")
	}
	byName := make(map[string]*tools.ToolDefinition, len(defs))
	for i := range defs {
		name := defs[i].Name
		if name == "" {
			return nil, errors.New("runner: tool with empty name")
		}
		if _, dup := byName[name]; dup {
			return nil, errors.Errorf("runner: duplicate tool name %q", name)
		}
		byName[name] = &defs[i]
	}
	return &Runner{
		Client:      client,
		Tools:       defs,
		MaxSteps:    maxSteps,
		TokenBudget: tokenBudget,
		byName:      byName,
	}, nil
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// Run answers the standalone question, invoking tools as needed. It returns
// the final answer text, or an error when the model call fails or the step
// cap is reached before a final answer appears.
func (r *Runner) Run(ctx context.Context, model anthropic.Model, question string, obs Observer) (string, error) {
	if obs == nil {
		obs = noopObserver{}
	}

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
	}

	for step := 0; step < r.MaxSteps; step++ {
		window, stats := windowing.PrepareSendWindow(conv, r.TokenBudget)
		if stats.OverBudgetNewest {
			return "", errors.New("runner: newest message group exceeds the token budget; raise SSG_TOKEN_BUDGET")
		}
		telemetry.Emit("window_prepared", map[string]any{
			"turn_id":         turnID,
			"step":            step,
			"budget":          stats.Budget,
			"total_estimated": stats.Total,
			"included_groups": stats.IncludedGroups,
			"skipped_groups":  stats.SkippedGroups,
		})

		msg, err := r.Client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     model,
			MaxTokens: int64(1024),
			Messages:  window,
			Tools:     r.anthropicTools(),
		})
		if err != nil {
			return "", errors.Wrap(err, "runner: completion")
		}
		conv = append(conv, msg.ToParam())

		var answer strings.Builder
		toolResults := []anthropic.ContentBlockParamUnion{}
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				if v.Text == "" {
					continue
				}
				obs.Thought(v.Text)
				if answer.Len() > 0 {
					answer.WriteString("\n")
				}
				answer.WriteString(v.Text)
			case anthropic.ToolUseBlock:
				input := json.RawMessage(v.JSON.Input.Raw())
				toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input, obs))
			}
		}

		if len(toolResults) == 0 {
			// No tool requests: the accumulated text is the final answer.
			return answer.String(), nil
		}
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}

	return "", errors.Errorf("runner: no final answer after %d steps", r.MaxSteps)
}

// execTool dispatches one tool invocation. An unknown tool name or a tool
// error becomes an error tool_result fed back to the model as corrective
// context; it never aborts the run.
func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage, obs Observer) anthropic.ContentBlockParamUnion {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	obs.ToolCall(name, string(input))

	emit := func(durationMs int64, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  len(input),
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()

	def, known := r.byName[name]
	if !known {
		emit(time.Since(start).Milliseconds(), 0, "tool not found")
		msg := fmt.Sprintf("tool %q not found; available tools: %s", name, r.toolNames())
		obs.ToolResult(name, msg, true)
		return anthropic.NewToolResultBlock(id, msg, true)
	}

	resp, err := def.Function(ctx, input)
	if err != nil {
		emit(time.Since(start).Milliseconds(), 0, "tool error")
		obs.ToolResult(name, err.Error(), true)
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	emit(time.Since(start).Milliseconds(), len(resp), "")
	obs.ToolResult(name, resp, false)
	return anthropic.NewToolResultBlock(id, resp, false)
}

func (r *Runner) toolNames() string {
	names := make([]string, 0, len(r.Tools))
	for _, t := range r.Tools {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
