package model

import "gorm.io/gorm"

// List size limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AutoMigrate creates or updates the activity service tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Activity{}, &ActivityRegistration{})
}
