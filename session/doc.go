// Package session holds the conversation history for one interactive session.
//
// Model:
//   - Turn: role + content, immutable once appended.
//   - Session: append-only, chronological; after every completed turn cycle
//     the history ends with a user turn followed by exactly one assistant
//     turn (error text included).
//   - Only the text transcript is persisted. Tool blocks are transient.
package session
