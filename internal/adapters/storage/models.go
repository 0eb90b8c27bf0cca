package storage

import "time"

// Preference keys
const (
	KeyLocale    = "locale"
	KeyServerURL = "server_url"
)

// PreferenceModel is the GORM model for the preferences table
type PreferenceModel struct {
	CreatedAt time.Time
	Key       string `gorm:"primaryKey"`
	UpdatedAt time.Time
	Value     string `gorm:"not null;default:''"`
}

// TableName specifies the table name for GORM
func (PreferenceModel) TableName() string { return "preferences" }
