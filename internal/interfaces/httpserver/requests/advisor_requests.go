package requests

// QueryRequest represents one advisory question.
type QueryRequest struct {
	Query          string   `json:"query" binding:"required"`
	UserIdentity   string   `json:"user_identity" binding:"required"`
	PriorQueries   []string `json:"prior_queries,omitempty"`
	PriorResponses []string `json:"prior_responses,omitempty"`
	EvalMode       bool     `json:"eval_mode,omitempty"`
}

// FeedbackRequest attaches a rating to a logged interaction.
type FeedbackRequest struct {
	Good   *bool  `json:"good" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

// PreferenceRequest adds or removes one preference line.
type PreferenceRequest struct {
	Preference string `json:"preference" binding:"required"`
}
