// Package tools defines tool contracts and the implementations handed to the
// reasoning agent.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Lookup tools: search (SerpAPI, credential-gated), arxiv, wikipedia.
//   - Caps: arxiv and wikipedia return the top result with content clamped
//     to 200 characters so tool results stay small for windowing.
package tools
