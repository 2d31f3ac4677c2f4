package infra

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostaldelago/internal/model"
)

// NewDatabase opens (or creates) the embedded SQLite file and runs
// AutoMigrate so a fresh install bootstraps its own schema. Foreign
// keys are enforced at the connection level; without the pragma SQLite
// silently ignores the REFERENCES clauses.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// A single reception desk writes to this file; one connection
	// avoids SQLITE_BUSY under concurrent gorm sessions.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates all tables. Also used by the seed
// and hash helper binaries.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Huesped{},
		&model.Producto{},
		&model.Consumo{},
		&model.Cortesia{},
		&model.Usuario{},
	)
}
