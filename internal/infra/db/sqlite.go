package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/giftcircle/backend/config"
)

const sqliteScheme = "sqlite://"

// Open connects to the database named by cfg.URL. A sqlite:// URL opens a
// local SQLite file for development; anything else is handed to PostgreSQL.
func Open(cfg *config.DatabaseConfig, debug bool) (*Database, error) {
	if path, ok := strings.CutPrefix(cfg.URL, sqliteScheme); ok {
		return NewSQLiteConnection(path)
	}
	return NewPostgresConnection(cfg, debug)
}

// NewSQLiteConnection opens an SQLite database. ":memory:" gives a private
// in-memory database. SQLite serializes writers, so the pool is capped at a
// single connection and row locks are not needed.
func NewSQLiteConnection(path string) (*Database, error) {
	gdb, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: gdb}, nil
}
