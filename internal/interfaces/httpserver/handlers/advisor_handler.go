package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
	"pulse-server/services/advisor-api/internal/infrastructure/observability"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/requests"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/responses"
)

// AdvisorHandler exposes the advisory query entrypoint.
type AdvisorHandler struct {
	orchestrator   *agent.Orchestrator
	requestTimeout time.Duration
	log            zerolog.Logger
}

// NewAdvisorHandler constructs the handler. requestTimeout bounds one whole
// request, reasoning turns and tool calls included; zero disables the bound.
func NewAdvisorHandler(orchestrator *agent.Orchestrator, requestTimeout time.Duration, log zerolog.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		orchestrator:   orchestrator,
		requestTimeout: requestTimeout,
		log:            log.With().Str("handler", "advisor").Logger(),
	}
}

// Query handles POST /v1/advisor/query
func (h *AdvisorHandler) Query(c *gin.Context) {
	var req requests.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := observability.GetTracer().Start(c.Request.Context(), "advisor.query")
	defer span.End()

	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	started := time.Now()
	result, err := h.orchestrator.Run(ctx, agent.RunParams{
		Query:          req.Query,
		UserIdentity:   req.UserIdentity,
		PriorQueries:   req.PriorQueries,
		PriorResponses: req.PriorResponses,
		EvalMode:       req.EvalMode,
	})
	elapsed := time.Since(started)

	status := http.StatusOK
	if err != nil {
		status = responses.StatusForError(err)
	}
	metrics.RequestsTotal.WithLabelValues(http.MethodPost, "/v1/advisor/query", strconv.Itoa(status)).Inc()
	metrics.RequestDuration.WithLabelValues(http.MethodPost, "/v1/advisor/query").Observe(elapsed.Seconds())

	if err != nil {
		h.log.Error().Err(err).Str("user_identity", req.UserIdentity).Msg("agent run failed")
		responses.HandleError(c, err, "failed to answer query")
		return
	}

	metrics.AgentTurns.Observe(float64(result.Turns))
	span.SetAttributes(observability.AgentAttributes(req.UserIdentity, result.LogReference, result.Turns)...)
	h.log.Info().
		Str("user_identity", req.UserIdentity).
		Int("turns", result.Turns).
		Dur("inference_time", elapsed).
		Msg("advisory query answered")

	c.JSON(http.StatusOK, responses.FromRunResult(result))
}
