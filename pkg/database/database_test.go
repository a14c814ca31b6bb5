package database

import (
	"errors"
	"path/filepath"
	"testing"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

func TestOpenSqliteAndMigrate(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "test.db")}
	db, err := Open(cfg, config.ModeTest)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	first := &model.Enrollment{UserID: "u1", CourseID: "c1"}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	second := &model.Enrollment{UserID: "u1", CourseID: "c1"}
	if err := db.Create(second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Driver: "oracle"}, config.ModeTest); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
