package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ratehub/store-rating-api/internal/config"
	"github.com/ratehub/store-rating-api/internal/models"
)

// Open connects to postgres and migrates the schema. TranslateError maps
// unique-constraint violations onto gorm.ErrDuplicatedKey so the storage
// layer can surface DuplicateEmail instead of raw driver codes.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Rating{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
