package storage

import (
	"context"
	"time"

	"github.com/coverwalk/coverwalk/pkg/logger"
)

// MigrationProvider applies the schema a history datastore needs.
type MigrationProvider interface {
	// RunMigrations migrates up, or to TargetVersion when it is set.
	RunMigrations(ctx context.Context, config MigrationConfig) error

	// GetCurrentVersion returns the current migration version of the database.
	GetCurrentVersion(ctx context.Context, config MigrationConfig) (int64, error)

	// GetSupportedEngine returns the database engine this provider supports.
	GetSupportedEngine() string
}

// MigrationConfig contains the configuration needed for running migrations.
type MigrationConfig struct {
	Engine        string
	URI           string
	TargetVersion uint
	Timeout       time.Duration
	Logger        logger.Logger
}
