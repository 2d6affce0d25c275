package database

import (
	"fmt"
	"os"
	"path/filepath"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cortivus/chat-api/internal/model"
)

// Open connects to the sqlite conversation log at dbPath, creating the
// directory and migrating the schema as needed. The connection is injected
// into the services that use it rather than held as package state.
func Open(dbPath string) (*gorm.DB, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite database object: %w", err)
	}

	// See https://github.com/glebarez/sqlite/issues/52 - sqlite supports
	// a single write connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.ChatLog{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	logx.Info("Database initialized at %s", dbPath)
	return db, nil
}
