package tool

import (
	"encoding/json"
	"fmt"
	"time"

	"pulse-server/services/advisor-api/internal/domain/llm"
)

// Name identifies a catalog tool.
type Name string

const (
	NameSleepData      Name = "get_sleep_data"
	NameStressData     Name = "get_stress_data"
	NameHeartRateData  Name = "get_heart_rate_data"
	NameSleepAnalysis  Name = "get_sleep_analysis"
	NamePodcastInsight Name = "get_podcast_insights"
	NameMedicalInsight Name = "get_medical_reference_insights"
)

// Call encapsulates one tool call requested by the LLM. Arguments stay raw
// until the catalog decodes them into the tool's typed contract.
type Call struct {
	ID        string          `json:"id"`
	Name      Name            `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Result captures the outcome of a dispatched tool call. Content is always
// conversational text: internal failures become human readable diagnostics,
// flagged by IsError, rather than program-level errors.
type Result struct {
	CallID   string `json:"call_id"`
	ToolName Name   `json:"tool_name"`
	Content  string `json:"content"`
	IsError  bool   `json:"is_error"`
}

// DeviceRangeArgs is the typed argument contract shared by the device metric
// tools. The credential field keeps the wire name the model was taught.
type DeviceRangeArgs struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Credential string `json:"user_key"`
}

const dateLayout = "2006-01-02"

// Validate checks the argument contract before dispatch.
func (a DeviceRangeArgs) Validate() error {
	if _, err := time.Parse(dateLayout, a.StartDate); err != nil {
		return fmt.Errorf("start_date must be formatted YYYY-MM-DD: %q", a.StartDate)
	}
	if _, err := time.Parse(dateLayout, a.EndDate); err != nil {
		return fmt.Errorf("end_date must be formatted YYYY-MM-DD: %q", a.EndDate)
	}
	if a.Credential == "" {
		return fmt.Errorf("user_key is required")
	}
	return nil
}

// QueryArgs is the typed argument contract for the knowledge tools.
type QueryArgs struct {
	Query string `json:"query"`
}

// Validate checks the argument contract before dispatch.
func (a QueryArgs) Validate() error {
	if a.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

// ParseToolCall converts an LLM provided tool call into the domain Call struct.
func ParseToolCall(call llm.ToolCall) Call {
	return Call{
		ID:        call.ID,
		Name:      Name(call.Function.Name),
		Arguments: call.Function.Arguments,
	}
}

// ToMessage converts a tool result into the conversation message appended
// after the assistant turn that requested it.
func (r Result) ToMessage() llm.ChatMessage {
	callID := r.CallID
	return llm.ChatMessage{
		Role:       llm.RoleTool,
		Content:    r.Content,
		ToolCallID: &callID,
		Name:       string(r.ToolName),
	}
}
