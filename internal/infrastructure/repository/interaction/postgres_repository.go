package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/infrastructure/database/entities"
)

// ErrLogNotFound is returned when no interaction log matches the reference.
var ErrLogNotFound = errors.New("interaction log not found")

// PostgresRepository implements interaction.Repository on GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository wires the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one interaction log.
func (r *PostgresRepository) Create(ctx context.Context, log *interaction.Log) error {
	events, err := json.Marshal(log.Response)
	if err != nil {
		return fmt.Errorf("encode response events: %w", err)
	}

	entity := entities.InteractionLog{
		PublicID:         log.PublicID,
		UserIdentity:     log.UserIdentity,
		Prompt:           log.Prompt,
		Response:         datatypes.JSON(events),
		MessageHistory:   datatypes.JSON(log.MessageHistory),
		SystemPromptID:   log.SystemPromptID,
		ResponseMetadata: datatypes.JSON(log.ResponseMetadata),
		InferenceTimeMS:  log.InferenceTime.Milliseconds(),
		CreatedAt:        log.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("insert interaction log: %w", err)
	}
	log.ID = entity.ID
	return nil
}

// FindByPublicID loads one interaction log by its public reference.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*interaction.Log, error) {
	var entity entities.InteractionLog
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query interaction log: %w", err)
	}
	return toDomain(&entity)
}

// AttachFeedback records feedback for a previously written log. This is the
// only mutation permitted after creation.
func (r *PostgresRepository) AttachFeedback(ctx context.Context, publicID string, feedback interaction.Feedback) error {
	result := r.db.WithContext(ctx).
		Model(&entities.InteractionLog{}).
		Where("public_id = ?", publicID).
		Updates(map[string]any{
			"feedback_good":   feedback.Good,
			"feedback_reason": feedback.Reason,
		})
	if result.Error != nil {
		return fmt.Errorf("attach feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLogNotFound
	}
	return nil
}

func toDomain(entity *entities.InteractionLog) (*interaction.Log, error) {
	log := &interaction.Log{
		ID:               entity.ID,
		PublicID:         entity.PublicID,
		UserIdentity:     entity.UserIdentity,
		Prompt:           entity.Prompt,
		MessageHistory:   json.RawMessage(entity.MessageHistory),
		SystemPromptID:   entity.SystemPromptID,
		ResponseMetadata: json.RawMessage(entity.ResponseMetadata),
		InferenceTime:    time.Duration(entity.InferenceTimeMS) * time.Millisecond,
		CreatedAt:        entity.CreatedAt,
	}
	if len(entity.Response) > 0 {
		if err := json.Unmarshal(entity.Response, &log.Response); err != nil {
			return nil, fmt.Errorf("decode response events: %w", err)
		}
	}
	if entity.FeedbackGood != nil {
		log.Feedback = &interaction.Feedback{
			Good:   *entity.FeedbackGood,
			Reason: entity.FeedbackReason,
		}
	}
	return log, nil
}

var _ interaction.Repository = (*PostgresRepository)(nil)
