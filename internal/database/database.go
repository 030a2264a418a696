package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	pkgLogger "github.com/prestadero/prestamos-api/pkg/logger"

	"github.com/prestadero/prestamos-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database. An embedded SQLite file is the default; a
// postgres:// URL switches to PostgreSQL through the same GORM layer.
func Connect(databaseURL string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	db, err := gorm.Open(openDialector(databaseURL), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite allows a single writer; a larger pool only helps on Postgres.
	if isPostgres(databaseURL) {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(50)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

func openDialector(databaseURL string) gorm.Dialector {
	if isPostgres(databaseURL) {
		return postgres.Open(databaseURL)
	}
	return sqlite.Open(databaseURL)
}

func isPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") ||
		strings.HasPrefix(databaseURL, "postgresql://")
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.RefreshToken{},
		&models.Loan{},
		&models.Payment{},
		&models.Setting{},
		&models.AuditLog{},
	)
}
