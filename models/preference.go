package models

import "time"

// Preference holds the settings page blob for one backend user (company
// info, display preferences), keyed by the remote user id.
type Preference struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       int64  `gorm:"uniqueIndex;not null"`
	SettingsJSON string `gorm:"size:4096"`
}
