package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/requests"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/responses"
)

// InteractionHandler exposes stored interaction logs and feedback attachment.
type InteractionHandler struct {
	logs interaction.Repository
	log  zerolog.Logger
}

// NewInteractionHandler constructs the handler.
func NewInteractionHandler(logs interaction.Repository, log zerolog.Logger) *InteractionHandler {
	return &InteractionHandler{
		logs: logs,
		log:  log.With().Str("handler", "interaction").Logger(),
	}
}

// Get handles GET /v1/interactions/:log_id
func (h *InteractionHandler) Get(c *gin.Context) {
	logID := c.Param("log_id")

	entry, err := h.logs.FindByPublicID(c.Request.Context(), logID)
	if err != nil {
		responses.HandleError(c, err, "failed to get interaction log")
		return
	}

	c.JSON(http.StatusOK, responses.FromInteractionLog(entry))
}

// AttachFeedback handles POST /v1/interactions/:log_id/feedback
func (h *InteractionHandler) AttachFeedback(c *gin.Context) {
	logID := c.Param("log_id")

	var req requests.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback := interaction.Feedback{Good: *req.Good, Reason: req.Reason}
	if err := h.logs.AttachFeedback(c.Request.Context(), logID, feedback); err != nil {
		responses.HandleError(c, err, "failed to attach feedback")
		return
	}

	h.log.Info().Str("log_id", logID).Bool("good", feedback.Good).Msg("feedback attached")

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
