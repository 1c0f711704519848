package db

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
)

// SetupTestDB creates an in-memory SQLite database with the full schema
// migrated, for use in repository and service tests. The connection is
// closed automatically when the test finishes.
func SetupTestDB(t *testing.T) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// Each SQLite :memory: connection is its own database; keep the pool
	// at one connection so every query sees the same schema.
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = database.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Tag{},
		&model.Media{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return database, nil
}
