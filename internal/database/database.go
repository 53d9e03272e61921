package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Initialize opens the configured database and migrates the schema.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("type", cfg.DatabaseType).Msg("Database connected successfully")

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates every table. The theme/member join table is
// registered explicitly so membership rows carry their own model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Theme{}, "Members", &models.ThemeMember{}); err != nil {
		return fmt.Errorf("failed to set up theme_members join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.TeamMember{},
		&models.Theme{},
		&models.ThemeMember{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error", "fatal":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
