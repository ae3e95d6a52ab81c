package windowing_test

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/searchsage/searchsage/internal/windowing"
)

func userText(s string) anthropic.MessageParam {
	return anthropic.NewUserMessage(anthropic.NewTextBlock(s))
}

func assistantToolUse(id string) anthropic.MessageParam {
	tu := anthropic.ToolUseBlockParam{ID: id, Name: "wikipedia"}
	return anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &tu})
}

func userToolResult(id string) anthropic.MessageParam {
	tr := anthropic.ToolResultBlockParam{ToolUseID: id}
	return anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{OfToolResult: &tr})
}

func TestGroupBlocks_PairsToolUseWithResult(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userText("q"),
		assistantToolUse("a"),
		userToolResult("a"),
		anthropic.NewAssistantMessage(anthropic.NewTextBlock("answer")),
	}
	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(groups), groups)
	}
	if groups[1].Kind != windowing.GroupPair || groups[1].Start != 1 || groups[1].End != 3 {
		t.Fatalf("expected pair spanning [1,3), got %+v", groups[1])
	}
}

func TestGroupBlocks_MismatchedIDsStaySingletons(t *testing.T) {
	msgs := []anthropic.MessageParam{
		assistantToolUse("a"),
		userToolResult("b"),
	}
	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 singleton groups, got %d", len(groups))
	}
	for _, g := range groups {
		if g.Kind != windowing.GroupSingleton {
			t.Fatalf("expected singleton, got %+v", g)
		}
	}
}

func TestPrepareSendWindow_KeepsNewestPairWithinBudget(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userText("old message that is fairly long and costly"),
		assistantToolUse("a"),
		userToolResult("a"),
	}
	// Pair costs 2*blockOverhead = 8; the old text costs far more.
	window, stats := windowing.PrepareSendWindow(msgs, 10)
	if len(window) != 2 {
		t.Fatalf("expected newest pair only, got %d messages", len(window))
	}
	if stats.IncludedGroups != 1 || stats.SkippedGroups != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.OverBudgetNewest {
		t.Fatal("newest pair fits; OverBudgetNewest must be false")
	}
}

func TestPrepareSendWindow_AllFitWithinLargeBudget(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userText("one"),
		anthropic.NewAssistantMessage(anthropic.NewTextBlock("two")),
		userText("three"),
	}
	window, stats := windowing.PrepareSendWindow(msgs, 1_000)
	if len(window) != 3 {
		t.Fatalf("expected full window, got %d", len(window))
	}
	if stats.IncludedGroups != 3 || stats.SkippedGroups != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_NewestOverBudget(t *testing.T) {
	msgs := []anthropic.MessageParam{
		userText("this single message blows the tiny budget on its own"),
	}
	window, stats := windowing.PrepareSendWindow(msgs, 5)
	if window != nil {
		t.Fatalf("expected empty window, got %d messages", len(window))
	}
	if !stats.OverBudgetNewest {
		t.Fatal("expected OverBudgetNewest")
	}
}

func TestPrepareSendWindow_ZeroBudget(t *testing.T) {
	window, stats := windowing.PrepareSendWindow([]anthropic.MessageParam{userText("x")}, 0)
	if window != nil || !stats.OverBudgetNewest {
		t.Fatalf("expected empty window with OverBudgetNewest, got %+v", stats)
	}
}

func TestEstimateMessage_TextRunesPlusOverhead(t *testing.T) {
	m := userText("abcd")
	if got := windowing.EstimateMessage(m); got != 8 {
		t.Fatalf("estimate: got %d want 8", got)
	}
}
