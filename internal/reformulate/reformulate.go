package reformulate

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog/log"

	"github.com/searchsage/searchsage/session"
)

// systemInstruction is the fixed rewrite instruction. Kept verbatim; the
// tests assert the transcript framing around it.
const systemInstruction = "Given the conversation history and the latest user question, " +
	"rewrite the latest question so that it is a self-contained standalone question. " +
	"If it's already standalone, just output it unchanged. Keep it concise."

// emptyHistoryPlaceholder is used verbatim when there are no prior turns.
const emptyHistoryPlaceholder = "No prior conversation."

// Reformulator rewrites a follow-up question into a standalone one using a
// single non-streaming completion call.
type Reformulator struct {
	Client *anthropic.Client
	Model  anthropic.Model
}

// New returns a reformulator bound to a client and model.
func New(client *anthropic.Client, model anthropic.Model) *Reformulator {
	return &Reformulator{Client: client, Model: model}
}

// Standalone rewrites question in the context of the prior turns. On any
// error it falls back to the raw question unchanged; the pipeline always
// gets a usable standalone question.
func (r *Reformulator) Standalone(ctx context.Context, prior []session.Turn, question string) string {
	prompt := BuildPrompt(prior, question)

	msg, err := r.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.Model,
		MaxTokens: int64(256),
		System:    []anthropic.TextBlockParam{{Text: systemInstruction}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		log.Debug().Err(err).Msg("reformulate: completion failed, using raw question")
		return question
	}

	var out string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += tb.Text
		}
	}
	out = postProcess(out)
	if out == "" {
		return question
	}
	return out
}

// BuildPrompt serializes the prior turns and the latest question into the
// user prompt. Prior turns appear as alternating "User:"/"Assistant:" lines
// in original order; an empty history uses the fixed placeholder sentence.
func BuildPrompt(prior []session.Turn, question string) string {
	var b strings.Builder
	b.WriteString("Conversation history:\n")
	if len(prior) == 0 {
		b.WriteString(emptyHistoryPlaceholder)
	} else {
		lines := make([]string, 0, len(prior))
		for _, t := range prior {
			if t.Role == session.RoleUser {
				lines = append(lines, "User: "+t.Content)
			} else {
				lines = append(lines, "Assistant: "+t.Content)
			}
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n\nLatest question:\n")
	b.WriteString(question)
	b.WriteString("\n\nStandalone version:")
	return b.String()
}

// postProcess trims whitespace and strips one layer of surrounding quotes.
func postProcess(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
