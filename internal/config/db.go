package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDb opens the database named by the config.
func OpenDb(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverSqlite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	return db, nil
}

// GetDb opens the database or exits.
func GetDb(cfg *Config) *gorm.DB {
	db, err := OpenDb(cfg)
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}
	return db
}
