package tester

import (
	"path/filepath"
	"testing"

	"github.com/emrgen/shazam/internal/compress"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB opens a migrated sqlite database in a temporary directory owned by t.
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shazam.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = model.Migrate(db)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// TestStore returns a gorm store over a fresh test database.
func TestStore(t *testing.T, codec compress.Compress) *store.GormStore {
	return store.NewGormStore(TestDB(t), codec)
}
