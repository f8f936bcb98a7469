package database

import (
	"fmt"

	"fittrack/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for the audit log.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
