package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/user"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/requests"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/responses"
)

// PreferenceHandler manages per-user preference lines.
type PreferenceHandler struct {
	users user.Store
	log   zerolog.Logger
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(users user.Store, log zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		users: users,
		log:   log.With().Str("handler", "preference").Logger(),
	}
}

// List handles GET /v1/users/:user_identity/preferences
func (h *PreferenceHandler) List(c *gin.Context) {
	identity := c.Param("user_identity")

	preferences, err := h.users.Preferences(c.Request.Context(), identity)
	if err != nil {
		responses.HandleError(c, err, "failed to list preferences")
		return
	}

	c.JSON(http.StatusOK, responses.PreferencesPayload{
		UserIdentity: identity,
		Preferences:  preferences,
	})
}

// Add handles POST /v1/users/:user_identity/preferences
func (h *PreferenceHandler) Add(c *gin.Context) {
	identity := c.Param("user_identity")

	var req requests.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.AddPreference(c.Request.Context(), identity, req.Preference); err != nil {
		responses.HandleError(c, err, "failed to add preference")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// Remove handles DELETE /v1/users/:user_identity/preferences
func (h *PreferenceHandler) Remove(c *gin.Context) {
	identity := c.Param("user_identity")

	var req requests.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.RemovePreference(c.Request.Context(), identity, req.Preference); err != nil {
		responses.HandleError(c, err, "failed to remove preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
