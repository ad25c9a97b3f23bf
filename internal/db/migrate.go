package db

import (
	"fmt"

	"github.com/sdnsembar01/aska/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the core GORM models for migration. The document
// store is listed separately because it needs the pgvector extension.
func AllModels() []interface{} {
	return []interface{}{
		&models.ChatLog{},
		&models.ChatFeedback{},
		&models.BullyingReport{},
		&models.BullyingReportEvent{},
		&models.CorruptionReport{},
		&models.PsychReport{},
		&models.WebUser{},
	}
}

// VectorModels returns models that require the pgvector extension.
func VectorModels() []interface{} {
	return []interface{}{
		&models.Document{},
	}
}

// AutoMigrate creates or updates the core tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// AutoMigrateVector enables pgvector and creates the document table.
// Postgres only; call after AutoMigrate.
func AutoMigrateVector(db *gorm.DB) error {
	if err := EnableVector(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(VectorModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate vector: %w", err)
	}
	return nil
}

// SeedAdmin upserts the initial dashboard admin account. The password
// hash is produced by the caller; this function never sees plaintext.
func SeedAdmin(db *gorm.DB, username, displayName, passwordHash string) error {
	admin := models.WebUser{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         "admin",
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "password_hash", "role"}),
	}).Create(&admin)
	if result.Error != nil {
		return fmt.Errorf("db: seed admin %q: %w", username, result.Error)
	}
	return nil
}
