package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// Migrate creates or updates every table, index and foreign key the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
