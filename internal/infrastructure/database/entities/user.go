package entities

import "time"

// UserDevice stores one wearable credential per user and device kind.
type UserDevice struct {
	ID           uint   `gorm:"primaryKey"`
	UserIdentity string `gorm:"size:128;uniqueIndex:idx_user_device"`
	DeviceKind   string `gorm:"size:64;uniqueIndex:idx_user_device"`
	Credential   string `gorm:"size:256"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPreference stores one free-text preference line per row so individual
// preferences can be appended and removed.
type UserPreference struct {
	ID           uint   `gorm:"primaryKey"`
	UserIdentity string `gorm:"size:128;index"`
	Preference   string `gorm:"type:text"`
	CreatedAt    time.Time
}
