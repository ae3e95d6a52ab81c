package windowing

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of messages [Start, End) in the original
// slice. Kind indicates whether it is a singleton or a validated tool pair.
type Group struct {
	Kind  GroupKind
	Start int
	End   int
}

// GroupBlocks groups messages into atomic units that preserve tool-use pairs.
// Invariants:
//   - A pair is exactly two adjacent messages: assistant(tool_use...) then
//     user(tool_result...).
//   - In the user message, all tool_result blocks come first; text may follow.
//   - Every tool_use id in the assistant message appears as a tool_result id
//     in the following user message, and vice versa.
func GroupBlocks(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		m := msgs[i]
		if m.Role == anthropic.MessageParamRoleAssistant {
			useIDs := collectToolUseIDs(m)
			if len(useIDs) > 0 && i+1 < len(msgs) && msgs[i+1].Role == anthropic.MessageParamRoleUser {
				valid, resultIDs := leadingToolResultIDs(msgs[i+1])
				if valid && sameIDSet(resultIDs, useIDs) {
					groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
					i += 2
					continue
				}
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// collectToolUseIDs returns the set of tool_use ids in an assistant message.
func collectToolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// leadingToolResultIDs inspects a user message and returns the ids of its
// leading tool_result blocks. valid is false when a tool_result appears
// after a non-result block.
func leadingToolResultIDs(m anthropic.MessageParam) (valid bool, resultIDs map[string]struct{}) {
	resultIDs = make(map[string]struct{})
	seenNonResult := false
	for _, blk := range m.Content {
		if tr := blk.OfToolResult; tr != nil {
			if seenNonResult {
				return false, resultIDs
			}
			if tr.ToolUseID != "" {
				resultIDs[tr.ToolUseID] = struct{}{}
			}
			continue
		}
		seenNonResult = true
	}
	return true, resultIDs
}

func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
