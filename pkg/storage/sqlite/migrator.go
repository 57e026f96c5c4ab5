package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/coverwalk/coverwalk/assets"
	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/storage"
)

// SQLiteMigrationProvider implements MigrationProvider for SQLite.
type SQLiteMigrationProvider struct{}

var _ storage.MigrationProvider = (*SQLiteMigrationProvider)(nil)

// NewSQLiteMigrationProvider creates a new SQLite migration provider.
func NewSQLiteMigrationProvider() *SQLiteMigrationProvider {
	return &SQLiteMigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (s *SQLiteMigrationProvider) GetSupportedEngine() string {
	return "sqlite"
}

// RunMigrations executes SQLite database migrations.
func (s *SQLiteMigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, provider, err := s.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	return s.executeMigrations(ctx, provider, config)
}

// GetCurrentVersion returns the current migration version.
func (s *SQLiteMigrationProvider) GetCurrentVersion(ctx context.Context, config storage.MigrationConfig) (int64, error) {
	db, provider, err := s.open(ctx, config)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return provider.GetDBVersion(ctx)
}

func (s *SQLiteMigrationProvider) open(ctx context.Context, config storage.MigrationConfig) (*sql.DB, *goose.Provider, error) {
	uri, err := PrepareDSN(config.URI)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = config.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize sqlite connection: %w", err)
	}

	migrationsFS, err := fs.Sub(assets.EmbedMigrations, assets.SqliteMigrationDir)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create sqlite migrations filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrationsFS)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create goose provider: %w", err)
	}

	return db, provider, nil
}

// executeMigrations runs the actual migration commands.
func (s *SQLiteMigrationProvider) executeMigrations(ctx context.Context, provider *goose.Provider, config storage.MigrationConfig) error {
	log := config.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	currentVersion, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sqlite db version: %w", err)
	}

	log.Info("sqlite current version", zap.Int64("version", currentVersion))

	if config.TargetVersion == 0 {
		if _, err := provider.Up(ctx); err != nil {
			return fmt.Errorf("failed to run sqlite migrations: %w", err)
		}
		log.Info("sqlite migration done")
		return nil
	}

	target := int64(config.TargetVersion)
	switch {
	case target < currentVersion:
		if _, err := provider.DownTo(ctx, target); err != nil {
			return fmt.Errorf("failed to run sqlite migrations down to %v: %w", target, err)
		}
	case target > currentVersion:
		if _, err := provider.UpTo(ctx, target); err != nil {
			return fmt.Errorf("failed to run sqlite migrations up to %v: %w", target, err)
		}
	default:
		log.Info("sqlite nothing to do")
		return nil
	}

	log.Info("sqlite migration done", zap.Int64("version", target))
	return nil
}
