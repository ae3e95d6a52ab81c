package windowing

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// Stats summarizes the result of window preparation.
type Stats struct {
	Total            int // estimated tokens for included groups only
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool // newest single group alone exceeds Budget
}

// blockOverhead is a fixed per-block cost covering minimal formatting.
const blockOverhead = 4

// EstimateMessage returns a deterministic token estimate for one message:
// rune counts of text and tool_result content plus per-block overhead.
// Non-text blocks contribute overhead only.
func EstimateMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += estimateBlock(blk)
	}
	return total
}

func estimateBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}
	if tr := blk.OfToolResult; tr != nil {
		if nested, ok := any(tr.Content).([]anthropic.ToolResultBlockParamContentUnion); ok {
			subtotal := 0
			for _, nb := range nested {
				if nt := nb.OfText; nt != nil {
					subtotal += utf8.RuneCountInString(nt.Text)
				}
			}
			return subtotal + blockOverhead
		}
		if s, ok := any(tr.Content).(string); ok {
			return utf8.RuneCountInString(s) + blockOverhead
		}
		return blockOverhead
	}
	return blockOverhead
}

// PrepareSendWindow returns a suffix of msgs (oldest to newest) that fits
// within budget without splitting groups.
//
// Rules:
//   - Include whole groups scanning newest to oldest while total stays
//     within budget.
//   - If the newest group alone exceeds budget, return an empty window and
//     set OverBudgetNewest.
//   - If budget <= 0, return an empty window (OverBudgetNewest set when any
//     groups exist).
func PrepareSendWindow(msgs []anthropic.MessageParam, budget int) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupBlocks(msgs)

	if budget <= 0 {
		return nil, Stats{Budget: budget, SkippedGroups: len(groups), OverBudgetNewest: true}
	}

	total := 0
	included := 0
	startIdx := len(groups)
	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := groupCost(groups[gi], msgs)
		if included == 0 && cost > budget {
			return nil, Stats{Budget: budget, SkippedGroups: len(groups), OverBudgetNewest: true}
		}
		if total+cost > budget {
			break
		}
		total += cost
		included++
		startIdx = gi
	}

	if included == 0 {
		return nil, Stats{Budget: budget, SkippedGroups: len(groups)}
	}

	window := msgs[groups[startIdx].Start:]
	return window, Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: included,
		SkippedGroups:  len(groups) - included,
	}
}

func groupCost(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += EstimateMessage(all[i])
	}
	return total
}
