package entities

import (
	"time"

	"gorm.io/datatypes"
)

// InteractionLog persists one completed agent interaction. Rows are append
// only; feedback attachment is the single permitted update.
type InteractionLog struct {
	ID               uint           `gorm:"primaryKey"`
	PublicID         string         `gorm:"size:64;uniqueIndex"`
	UserIdentity     string         `gorm:"size:128;index"`
	Prompt           string         `gorm:"type:text"`
	Response         datatypes.JSON `gorm:"type:jsonb"`
	MessageHistory   datatypes.JSON `gorm:"type:jsonb"`
	SystemPromptID   string         `gorm:"size:128"`
	ResponseMetadata datatypes.JSON `gorm:"type:jsonb"`
	InferenceTimeMS  int64
	FeedbackGood     *bool
	FeedbackReason   string `gorm:"type:text"`
	CreatedAt        time.Time
}
