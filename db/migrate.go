package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// MigrationsFS returns the SQL migrations shipped with the binary.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const migrationsTable = "schema_migrations"

type MigrationStatus struct {
	CurrentVersion    int64   `json:"current_version"`
	PendingMigrations []int64 `json:"pending_migrations"`
	TotalMigrations   int     `json:"total_migrations"`
	HasPendingChanges bool    `json:"has_pending_changes"`
}

// Migrator applies the goose-annotated SQL files in fsys
// (NNNNNNNNNN_description.sql) and records them in schema_migrations.
// Every migration runs in its own transaction.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

func NewMigrator(gdb *gorm.DB, fsys fs.FS) (*Migrator, error) {
	dialect, err := gooseDialect(gdb.Dialector.Name())
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	store, err := database.NewStore(dialect, migrationsTable)
	if err != nil {
		return nil, fmt.Errorf("create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", sqlDB, fsys,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	return &Migrator{provider: provider, logger: slog.Default()}, nil
}

func gooseDialect(name string) (goose.Dialect, error) {
	switch name {
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", name)
	}
}

func (m *Migrator) WithLogger(l *slog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

// Up applies every pending migration in version order.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)

	var partial *goose.PartialError
	if errors.As(err, &partial) {
		results = partial.Applied
	}

	for _, res := range results {
		m.logger.Info("applied migration",
			"version", res.Source.Version,
			"file", path.Base(res.Source.Path),
			"duration", res.Duration)
	}

	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if len(results) == 0 {
		m.logger.Info("no pending migrations")
	}

	return nil
}

// Down rolls back the most recently applied migration. It is a no-op when
// nothing has been applied.
func (m *Migrator) Down(ctx context.Context) error {
	res, err := m.provider.Down(ctx)

	if errors.Is(err, goose.ErrNoNextVersion) {
		m.logger.Info("no migrations to roll back")
		return nil
	}

	if err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}

	m.logger.Info("rolled back migration",
		"version", res.Source.Version,
		"file", path.Base(res.Source.Path),
		"duration", res.Duration)

	return nil
}

func (m *Migrator) Status(ctx context.Context) (*MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("read migration status: %w", err)
	}

	current, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}

	status := &MigrationStatus{
		CurrentVersion:    current,
		PendingMigrations: []int64{},
		TotalMigrations:   len(statuses),
	}

	for _, s := range statuses {
		if s.State == goose.StatePending {
			status.PendingMigrations = append(status.PendingMigrations, s.Source.Version)
		}
	}

	status.HasPendingChanges = len(status.PendingMigrations) > 0

	return status, nil
}
