package interaction

import (
	"encoding/json"
	"time"
)

// Event is one ordered response event inside an interaction log: an assistant
// tool-call announcement, a tool result, or the final assistant text.
type Event struct {
	Role       string          `json:"role"`
	Content    string          `json:"content,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	ToolCalls  json.RawMessage `json:"tool_calls,omitempty"`
}

// Feedback is a later-attached rating for a logged interaction.
type Feedback struct {
	Good   bool   `json:"good"`
	Reason string `json:"reason,omitempty"`
}

// Log is the immutable record of one completed request. It is created after
// the reasoning loop finishes and never mutated afterwards, except by feedback
// attachment keyed by the public reference.
type Log struct {
	ID               uint            `json:"id"`
	PublicID         string          `json:"public_id"`
	UserIdentity     string          `json:"user_identity"`
	Prompt           string          `json:"prompt"`
	Response         []Event         `json:"response"`
	MessageHistory   json.RawMessage `json:"message_history,omitempty"`
	SystemPromptID   string          `json:"system_prompt_id"`
	ResponseMetadata json.RawMessage `json:"response_metadata,omitempty"`
	InferenceTime    time.Duration   `json:"inference_time"`
	Feedback         *Feedback       `json:"feedback,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
