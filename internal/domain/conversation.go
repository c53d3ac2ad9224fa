package domain

import "encoding/json"

// Message roles. Tool entries record the agent's tool invocations so
// failed attempts stay visible in history on the next turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of a conversation history. Histories are
// persisted as an ordered JSON array keyed by customer phone.
type Message struct {
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	ToolName   string          `json:"tool_name,omitempty"`
	ToolInput  json.RawMessage `json:"tool_input,omitempty"`
	ToolResult string          `json:"tool_result,omitempty"`
}

// TruncateHistory returns at most max trailing messages without ever
// starting mid-turn. When the history exceeds max, the last max
// entries are taken and leading non-user entries are dropped so the
// result always opens with a user message. Downstream LLM calls
// require well-formed tool-call/response pairing; a shorter history
// is better than a corrupted one.
func TruncateHistory(msgs []Message, max int) []Message {
	if max <= 0 {
		return []Message{}
	}
	if len(msgs) <= max {
		return msgs
	}

	window := msgs[len(msgs)-max:]
	for i, msg := range window {
		if msg.Role == RoleUser {
			return window[i:]
		}
	}

	// No user message inside the window at all.
	return []Message{}
}
