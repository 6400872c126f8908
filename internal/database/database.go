package database

import (
	"fmt"

	"github.com/BenjaminLTakaki/coverart-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the local SQLite history database.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, nil
}

// Migrate runs schema migrations for the history index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Generation{})
}
