package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the session database described by dsn.
// "memory" or "" gives an in-memory SQLite database, a postgres:// (or postgresql://)
// URL uses Postgres, anything else is treated as a SQLite file path.
func Init(dsn string, logOutput io.Writer) (*gorm.DB, error) {
	if logOutput == nil {
		logOutput = os.Stdout
	}
	gormLogger := logger.New(
		log.New(logOutput, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // gorm's default logger threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	var dialector gorm.Dialector
	switch {
	case dsn == "memory" || dsn == "":
		log.Println("INFO: [Database] Initializing in-memory SQLite database.")
		dialector = sqlite.Open("file::memory:?cache=shared")
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		log.Println("INFO: [Database] Initializing Postgres database.")
		dialector = postgres.Open(dsn)
	default:
		log.Printf("INFO: [Database] Initializing file-based SQLite database at '%s'.", dsn)
		dbDir := filepath.Dir(dsn)
		if dbDir != "." && dbDir != "/" {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
			}
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Printf("ERROR: [Database] Failed to connect to database: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("INFO: [Database] Database connection established successfully.")
	return db, nil
}

// Migrate creates or updates the tables the service owns.
func Migrate(db *gorm.DB) error {
	log.Println("INFO: [Database] Running database migrations...")
	if err := db.AutoMigrate(&models.SurveySession{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Println("INFO: [Database] Database migration completed.")
	return nil
}
