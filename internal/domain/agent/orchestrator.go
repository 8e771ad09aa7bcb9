package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/llm"
	"pulse-server/services/advisor-api/internal/domain/tool"
	"pulse-server/services/advisor-api/internal/domain/user"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
)

// Orchestrator drives the reasoning loop: it feeds conversation state to the
// LLM, executes any tool calls the model requests, appends the results, and
// repeats until the model answers without tools or the turn bound is hit.
type Orchestrator struct {
	provider    llm.Provider
	catalog     *tool.Catalog
	users       user.Store
	logs        Sink
	model       string
	maxTurns    int
	toolTimeout time.Duration
	log         zerolog.Logger
	clock       func() time.Time
}

// NewOrchestrator wires the reasoning loop. The catalog and collaborator
// handles are process-wide and reused across requests; per-request state lives
// entirely in the run.
func NewOrchestrator(
	provider llm.Provider,
	catalog *tool.Catalog,
	users user.Store,
	logs Sink,
	model string,
	maxTurns int,
	toolTimeout time.Duration,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		catalog:     catalog,
		users:       users,
		logs:        logs,
		model:       model,
		maxTurns:    maxTurns,
		toolTimeout: toolTimeout,
		log:         log.With().Str("component", "agent-orchestrator").Logger(),
	}
}

// Run executes one complete agent request.
func (o *Orchestrator) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	started := o.now()

	bctx, err := o.buildContext(ctx, params)
	if err != nil {
		return nil, &LoopError{Err: err}
	}

	messages := bctx.messages
	definitions := o.catalog.Definitions()
	var usage *llm.Usage

	for turn := 0; turn < o.maxTurns; turn++ {
		resp, err := o.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
			Model:    o.model,
			Messages: messages,
			Tools:    definitions,
		})
		if err != nil {
			return nil, &LoopError{Err: fmt.Errorf("chat completion: %w", err), Messages: messages}
		}
		if len(resp.Choices) == 0 {
			return nil, &LoopError{Err: errors.New("llm returned no choices"), Messages: messages}
		}

		choice := resp.Choices[0]
		messages = append(messages, choice.Message)
		usage = resp.Usage

		if len(choice.Message.ToolCalls) == 0 {
			return o.finalize(params, messages, bctx, turn+1, usage, started)
		}

		// Sibling calls in one turn are independent of each other; each result
		// is appended keyed by its request id. Executed sequentially because
		// the device API's rate-limit tolerance for overlap is unconfirmed.
		for _, rawCall := range choice.Message.ToolCalls {
			call := tool.ParseToolCall(rawCall)

			callCtx := ctx
			var cancel context.CancelFunc
			if o.toolTimeout > 0 {
				callCtx, cancel = context.WithTimeout(ctx, o.toolTimeout)
			}
			dispatched := o.now()
			result := o.catalog.Dispatch(callCtx, call)
			if cancel != nil {
				cancel()
			}

			callStatus := "ok"
			if result.IsError {
				callStatus = "error"
			}
			metrics.ToolCallsTotal.WithLabelValues(string(call.Name), callStatus).Inc()
			metrics.ToolDuration.WithLabelValues(string(call.Name)).Observe(o.now().Sub(dispatched).Seconds())

			messages = append(messages, result.ToMessage())
		}
	}

	return nil, &LoopError{Err: ErrTurnLimitExceeded, Messages: messages}
}

// finalize turns the completed conversation into the response, hands the log
// to the sink, and assembles the eval trace when requested.
func (o *Orchestrator) finalize(
	params RunParams,
	messages []llm.ChatMessage,
	bctx builtContext,
	turns int,
	usage *llm.Usage,
	started time.Time,
) (*RunResult, error) {
	final := messages[len(messages)-1]
	events := turnEvents(messages[bctx.turnBoundary+1:])

	result := &RunResult{
		Response: final.Content,
		Turns:    turns,
	}

	if params.EvalMode {
		// Everything between the turn boundary and the final message.
		result.Trace = events[:len(events)-1]
		return result, nil
	}

	result.LogReference = "log_" + uuid.NewString()
	entry := &interaction.Log{
		PublicID:       result.LogReference,
		UserIdentity:   params.UserIdentity,
		Prompt:         params.Query,
		Response:       events,
		MessageHistory: bctx.history,
		SystemPromptID: SystemPromptID,
		InferenceTime:  o.now().Sub(started),
		CreatedAt:      o.now(),
	}
	if usage != nil {
		if encoded, err := json.Marshal(usage); err == nil {
			entry.ResponseMetadata = encoded
		}
	}
	o.logs.Submit(entry)

	return result, nil
}

// turnEvents converts this turn's messages into ordered log events. Tool call
// arguments are redacted so the stored record never carries the credential.
func turnEvents(messages []llm.ChatMessage) []interaction.Event {
	events := make([]interaction.Event, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Role == llm.RoleAssistant && len(msg.ToolCalls) > 0:
			events = append(events, interaction.Event{
				Role:      llm.RoleAssistant,
				ToolCalls: redactToolCalls(msg.ToolCalls),
			})
		case msg.Role == llm.RoleTool:
			callID := ""
			if msg.ToolCallID != nil {
				callID = *msg.ToolCallID
			}
			events = append(events, interaction.Event{
				Role:       llm.RoleTool,
				ToolCallID: callID,
				ToolName:   msg.Name,
				Content:    msg.Content,
			})
		case msg.Role == llm.RoleAssistant:
			events = append(events, interaction.Event{
				Role:    llm.RoleAssistant,
				Content: msg.Content,
			})
		}
	}
	return events
}

// redactToolCalls replaces the credential argument with a placeholder before
// the calls are persisted.
func redactToolCalls(calls []llm.ToolCall) json.RawMessage {
	type loggedCall struct {
		ID        string         `json:"id"`
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}

	logged := make([]loggedCall, 0, len(calls))
	for _, call := range calls {
		entry := loggedCall{ID: call.ID, Name: call.Function.Name}
		var args map[string]any
		if err := json.Unmarshal(call.Function.Arguments, &args); err == nil {
			if _, ok := args["user_key"]; ok {
				args["user_key"] = "USER_KEY"
			}
			entry.Arguments = args
		}
		logged = append(logged, entry)
	}

	encoded, err := json.Marshal(logged)
	if err != nil {
		return nil
	}
	return encoded
}
