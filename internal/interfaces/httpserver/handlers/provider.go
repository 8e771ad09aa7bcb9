package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/user"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Advisor     *AdvisorHandler
	Interaction *InteractionHandler
	Preference  *PreferenceHandler
}

// NewProvider constructs the handler provider with domain collaborators.
func NewProvider(
	orchestrator *agent.Orchestrator,
	logs interaction.Repository,
	users user.Store,
	requestTimeout time.Duration,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Advisor:     NewAdvisorHandler(orchestrator, requestTimeout, log),
		Interaction: NewInteractionHandler(logs, log),
		Preference:  NewPreferenceHandler(users, log),
	}
}
