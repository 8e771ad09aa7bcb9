package responses

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/user"
	interactionrepo "pulse-server/services/advisor-api/internal/infrastructure/repository/interaction"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusForError maps domain errors to an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, interactionrepo.ErrLogNotFound):
		return http.StatusNotFound
	case errors.Is(err, metric.ErrDeviceUnavailable), errors.Is(err, knowledge.ErrBackendUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, agent.ErrTurnLimitExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleError maps domain errors to HTTP responses.
func HandleError(reqCtx *gin.Context, err error, message string) {
	reqCtx.AbortWithStatusJSON(StatusForError(err), ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// QueryPayload is returned for a completed advisory request.
type QueryPayload struct {
	Response     string              `json:"response"`
	LogReference string              `json:"log_reference,omitempty"`
	Turns        int                 `json:"turns"`
	Trace        []interaction.Event `json:"trace,omitempty"`
}

// FromRunResult maps the agent result to the DTO.
func FromRunResult(r *agent.RunResult) QueryPayload {
	return QueryPayload{
		Response:     r.Response,
		LogReference: r.LogReference,
		Turns:        r.Turns,
		Trace:        r.Trace,
	}
}

// InteractionLogPayload exposes a stored interaction log.
type InteractionLogPayload struct {
	PublicID       string                `json:"public_id"`
	UserIdentity   string                `json:"user_identity"`
	Prompt         string                `json:"prompt"`
	Response       []interaction.Event   `json:"response"`
	SystemPromptID string                `json:"system_prompt_id"`
	InferenceMS    int64                 `json:"inference_ms"`
	Feedback       *interaction.Feedback `json:"feedback,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// FromInteractionLog maps the domain log to the DTO.
func FromInteractionLog(l *interaction.Log) InteractionLogPayload {
	return InteractionLogPayload{
		PublicID:       l.PublicID,
		UserIdentity:   l.UserIdentity,
		Prompt:         l.Prompt,
		Response:       l.Response,
		SystemPromptID: l.SystemPromptID,
		InferenceMS:    l.InferenceTime.Milliseconds(),
		Feedback:       l.Feedback,
		CreatedAt:      l.CreatedAt,
	}
}

// PreferencesPayload lists a user's stored preference lines.
type PreferencesPayload struct {
	UserIdentity string   `json:"user_identity"`
	Preferences  []string `json:"preferences"`
}
