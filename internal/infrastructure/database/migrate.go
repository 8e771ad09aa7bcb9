package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pulse-server/services/advisor-api/internal/infrastructure/database/entities"
)

// AutoMigrate creates or updates the service tables.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")
	return db.WithContext(ctx).AutoMigrate(
		&entities.InteractionLog{},
		&entities.UserDevice{},
		&entities.UserPreference{},
	)
}
