package agent

import (
	_ "embed"
	"errors"
	"fmt"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/llm"
)

//go:embed system_instructions.md
var systemInstructions string

// SystemPromptID identifies the system prompt revision recorded with every
// interaction log.
const SystemPromptID = "system_instructions.md"

// ErrTurnLimitExceeded is the failure recorded when the reasoning loop hits
// its configured turn bound without producing a final answer.
var ErrTurnLimitExceeded = errors.New("agent turn limit exceeded")

// RunParams is the inbound contract for one agent request.
type RunParams struct {
	Query          string
	UserIdentity   string
	PriorQueries   []string
	PriorResponses []string
	// EvalMode returns the tool call trace for offline grading and skips the
	// interaction log write.
	EvalMode bool
}

// RunResult is the outcome of a completed agent request.
type RunResult struct {
	Response     string
	LogReference string
	Turns        int
	// Trace holds the tool-call and tool-result events between the turn
	// boundary and the final message. Populated only in eval mode.
	Trace []interaction.Event
}

// LoopError is the single aggregated failure surfaced when a run cannot
// complete. It carries whatever partial conversation state exists for
// diagnostics; callers never receive a partial silent success.
type LoopError struct {
	Err      error
	Messages []llm.ChatMessage
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("agent run failed after %d messages: %v", len(e.Messages), e.Err)
}

func (e *LoopError) Unwrap() error {
	return e.Err
}

// Sink accepts completed interaction logs for persistence. Implementations
// may write asynchronously; the response does not wait for the write.
type Sink interface {
	Submit(entry *interaction.Log)
}
