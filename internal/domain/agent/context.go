package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pulse-server/services/advisor-api/internal/domain/llm"
	"pulse-server/services/advisor-api/internal/domain/user"
)

// builtContext is the assembled conversation state for one request, plus the
// turn boundary: the index of the newly appended query message, used later to
// slice out just this turn's events for logging and evaluation. history is the
// pre-query context snapshot persisted with the interaction log, with the
// device credential already redacted.
type builtContext struct {
	messages     []llm.ChatMessage
	turnBoundary int
	history      json.RawMessage
}

// buildContext assembles the per-request conversation state: system
// instructions, a date fact, an identity fact, paired prior turns, stored
// preferences, the device credential, and the current query. Each request owns
// an independent copy; the slice is only ever appended to afterwards.
func (o *Orchestrator) buildContext(ctx context.Context, params RunParams) (builtContext, error) {
	messages := []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: systemInstructions},
		{Role: llm.RoleSystem, Content: fmt.Sprintf("Today's date is: %s", o.now().Format("2006-01-02"))},
		{Role: llm.RoleSystem, Content: "My name and user_key is: " + params.UserIdentity},
	}

	messages = append(messages, pairHistory(params.PriorQueries, params.PriorResponses)...)

	// Unreadable or missing preferences degrade to none, not a failed request.
	preferences, err := o.users.Preferences(ctx, params.UserIdentity)
	if err != nil {
		o.log.Warn().Err(err).Str("user", params.UserIdentity).Msg("load preferences")
		preferences = nil
	}
	if len(preferences) > 0 {
		messages = append(messages, llm.ChatMessage{
			Role:    llm.RoleSystem,
			Content: "User preferences: " + strings.Join(preferences, "\n"),
		})
	}

	// Without the credential no device tool can run, so this failure aborts
	// the request instead of degrading.
	credential, err := o.users.DeviceCredential(ctx, params.UserIdentity, user.DeviceOuraRing)
	if err != nil {
		return builtContext{}, fmt.Errorf("fetch device credential: %w", err)
	}
	messages = append(messages, llm.ChatMessage{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf("My name and user_key is: %s USER_KEY: %s", params.UserIdentity, credential),
	})

	// Snapshot the context before the query is appended; the stored history
	// carries a placeholder where the credential would be.
	snapshot := make([]llm.ChatMessage, len(messages))
	copy(snapshot, messages)
	snapshot[len(snapshot)-1].Content = fmt.Sprintf("My name and user_key is: %s USER_KEY: USER_KEY", params.UserIdentity)
	history, err := json.Marshal(snapshot)
	if err != nil {
		history = nil
	}

	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: params.Query})

	return builtContext{
		messages:     messages,
		turnBoundary: len(messages) - 1,
		history:      history,
	}, nil
}

// pairHistory converts the flat parallel query/response lists into alternating
// turns, pairing index for index. A response list shorter than the query list
// is tolerated: the final unmatched query is left without a paired response.
func pairHistory(queries, responses []string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(queries)+len(responses))
	for i, query := range queries {
		messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: query})
		if i < len(responses) {
			messages = append(messages, llm.ChatMessage{Role: llm.RoleAssistant, Content: responses[i]})
		}
	}
	return messages
}

// now is indirected for tests.
func (o *Orchestrator) now() time.Time {
	if o.clock != nil {
		return o.clock()
	}
	return time.Now()
}
