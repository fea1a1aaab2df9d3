package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskmanager/domain/models"
	"taskmanager/domain/repositories"
)

type DatabaseConfig struct {
	Driver     string // postgres (default), sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	LogLevel   string // silent, error, warn, info
}

// NewDatabase opens the configured database. Timestamps are always written in UTC
// so both dialects compare due dates consistently.
func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite":
		dialector = sqlite.Open(config.SQLitePath)
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(parseLogLevel(config.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Subtask{},
		&models.Notification{},
		&models.Attachment{},
	); err != nil {
		return err
	}
	return backfillTitleSearch(db)
}

// backfillTitleSearch fills the search key of rows written before the column existed.
func backfillTitleSearch(db *gorm.DB) error {
	var tasks []models.Task
	return db.Model(&models.Task{}).
		Select("id", "title").
		Where("title_search = '' AND title <> ''").
		FindInBatches(&tasks, 500, func(_ *gorm.DB, _ int) error {
			for _, task := range tasks {
				if err := db.Model(&models.Task{}).
					Where("id = ?", task.ID).
					UpdateColumn("title_search", models.SearchKey(task.Title)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
