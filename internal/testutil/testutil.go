// internal/testutil/testutil.go
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/database"
)

// Config returns a configuration for tests: in-memory sqlite, no external
// providers, every ledger policy off.
func Config() *config.Config {
	return &config.Config{
		Environment: "test",
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Path:     ":memory:",
			LogLevel: "silent",
		},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			Issuer:         "farmdirect-test",
			AccessTokenTTL: 1,
		},
		AWS: config.AWSConfig{
			Region:       "eu-central-1",
			S3Bucket:     "farmdirect-test",
			UploadURLTTL: 15,
		},
		Payment: config.PaymentConfig{
			Currency: "pln",
		},
	}
}

// NewDB opens a migrated in-memory database that lives as long as the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(Config().Database)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() { database.Close(db) })
	return db
}
