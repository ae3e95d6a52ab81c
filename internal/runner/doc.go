// Package runner drives the reason-act loop against the Anthropic Messages
// API and dispatches tool calls.
//
// Invariants:
//   - tool_use and the corresponding tool_result stay adjacent within a step
//     to preserve execution context for follow-up reasoning.
//   - Unknown tool names and tool errors are fed back as error tool_results,
//     never aborting the run.
//   - The loop is bounded by MaxSteps; termination is guaranteed.
//
// Flow:
//
//	user(question) -> assistant(tool_use) -> user(tool_result) -> ... -> assistant(text)
package runner
