// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// Connect to database
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool. SQLite gets a single writer connection so
	// transitions never interleave.
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", db.Dialector.Name()).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&ledger.Nonce{},
		&models.FarmerProfile{},
		&models.ProductCycle{},
		&models.CrowdfundingCampaign{},
		&models.Contributor{},
		&models.Account{},
		&models.TopUp{},
		&models.JournalEntry{},
		&models.JournalHead{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedJournalHead(db); err != nil {
		return fmt.Errorf("failed to seed journal head: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := createIndexes(db); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_product_cycles_farmer_created ON product_cycles(farmer, created_at DESC)",

		// Campaign indexes
		"CREATE INDEX IF NOT EXISTS idx_campaigns_active_deadline ON crowdfunding_campaigns(is_active, deadline)",
		"CREATE INDEX IF NOT EXISTS idx_campaigns_farmer_created ON crowdfunding_campaigns(farmer, created_at DESC)",

		// Journal indexes
		"CREATE INDEX IF NOT EXISTS idx_journal_record_index ON journal_entries(record_address, entry_index)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_product_cycles_search ON product_cycles USING GIN(to_tsvector('simple', product_name || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_campaigns_search ON crowdfunding_campaigns USING GIN(to_tsvector('simple', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// seedJournalHead creates the journal tip row once, pointing at the last
// entry already on disk.
func seedJournalHead(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.JournalHead{}).
			Where("address = ?", models.JournalHeadAddress).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		head := models.JournalHead{Address: models.JournalHeadAddress}
		var last models.JournalEntry
		result := tx.Order("entry_index DESC").Limit(1).Find(&last)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			head.Entries = last.Index + 1
			head.Hash = last.EntryHash
		}

		return tx.Create(&head).Error
	})
}

func logLevel(level string) logger.LogLevel {
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
