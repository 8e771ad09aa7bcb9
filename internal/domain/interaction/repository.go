package interaction

import "context"

// Repository is the append-only logging sink. Logs are written once per
// request; only feedback may be attached afterwards.
type Repository interface {
	Create(ctx context.Context, log *Log) error
	FindByPublicID(ctx context.Context, publicID string) (*Log, error)
	AttachFeedback(ctx context.Context, publicID string, feedback Feedback) error
}
