package userstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pulse-server/services/advisor-api/internal/domain/user"
	"pulse-server/services/advisor-api/internal/infrastructure/database/entities"
)

// PostgresRepository implements user.Store on GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository wires the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DeviceCredential looks up the stored credential for one identity and device
// kind.
func (r *PostgresRepository) DeviceCredential(ctx context.Context, identity string, kind user.DeviceKind) (string, error) {
	var entity entities.UserDevice
	err := r.db.WithContext(ctx).
		Where("user_identity = ? AND device_kind = ?", identity, string(kind)).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", user.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query device credential: %w", err)
	}
	return entity.Credential, nil
}

// Preferences returns the stored preference lines for one identity, oldest
// first.
func (r *PostgresRepository) Preferences(ctx context.Context, identity string) ([]string, error) {
	var rows []entities.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_identity = ?", identity).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	preferences := make([]string, 0, len(rows))
	for _, row := range rows {
		preferences = append(preferences, row.Preference)
	}
	return preferences, nil
}

// AddPreference appends one preference line.
func (r *PostgresRepository) AddPreference(ctx context.Context, identity, preference string) error {
	entity := entities.UserPreference{
		UserIdentity: identity,
		Preference:   preference,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("insert preference: %w", err)
	}
	return nil
}

// RemovePreference deletes a preference line by exact text match.
func (r *PostgresRepository) RemovePreference(ctx context.Context, identity, preference string) error {
	result := r.db.WithContext(ctx).
		Where("user_identity = ? AND preference = ?", identity, preference).
		Delete(&entities.UserPreference{})
	if result.Error != nil {
		return fmt.Errorf("delete preference: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

var _ user.Store = (*PostgresRepository)(nil)
