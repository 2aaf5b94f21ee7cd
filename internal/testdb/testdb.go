// Package testdb provisions isolated databases for tests.
//
// By default every call to Open gets a private in-memory SQLite database
// with foreign keys enabled and the schema created from the GORM models.
// When TEST_DB_HOST is set, tests run against PostgreSQL instead: each test
// binary gets its own database (chirp_test_<worker>), migrations are applied
// to it, and all tables are truncated before every test.
package testdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chirp-dev/chirp/db"
	"github.com/chirp-dev/chirp/internal/config"
)

const pgDuplicateDatabase = "42P04"

// Open returns an empty database with the blog schema that is closed when
// the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	if os.Getenv("TEST_DB_HOST") == "" {
		return openSQLite(t)
	}

	cfg, err := config.LoadFor(config.EnvTest)
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}

	return NewPostgres(cfg.Database, WorkerName()).Open(t)
}

func openSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	// Every new connection to :memory: is a new, empty database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.MigrateDatabase(gdb); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return gdb
}

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

// WorkerName identifies the running test binary. TEST_WORKER_ID wins when
// set; otherwise the binary name is used, e.g. "services" for services.test.
func WorkerName() string {
	name := os.Getenv("TEST_WORKER_ID")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(os.Args[0]), ".test")
	}

	name = nonIdent.ReplaceAllString(strings.ToLower(name), "_")
	if name == "" {
		name = "1"
	}

	return name
}

// Postgres provisions a worker-scoped PostgreSQL database.
type Postgres struct {
	server config.DatabaseConfig
	name   string
}

func NewPostgres(server config.DatabaseConfig, worker string) *Postgres {
	return &Postgres{
		server: server,
		name:   fmt.Sprintf("%s_worker_%s", server.Name, worker),
	}
}

// Open makes sure the worker database exists and is migrated, then empties
// every table so the test starts from a clean state.
func (p *Postgres) Open(t testing.TB) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	if err := p.ensureDatabase(ctx); err != nil {
		t.Fatalf("provision %s: %v", p.name, err)
	}

	gdb, err := db.ConnectDatabase(p.server.WithName(p.name).DSN())
	if err != nil {
		t.Fatalf("connect %s: %v", p.name, err)
	}
	gdb.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrator, err := db.NewMigrator(gdb, db.MigrationsFS())
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}

	if err := migrator.Up(ctx); err != nil {
		t.Fatalf("migrate %s: %v", p.name, err)
	}

	if err := Truncate(ctx, gdb); err != nil {
		t.Fatalf("reset %s: %v", p.name, err)
	}

	return gdb
}

func (p *Postgres) ensureDatabase(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, p.server.WithName("postgres").URL())
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", p.name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database: %w", err)
	}

	if exists {
		return nil
	}

	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{p.name}.Sanitize())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateDatabase {
		return nil
	}

	return err
}

// Truncate removes every row from the entity tables and restarts their
// id sequences.
func Truncate(ctx context.Context, gdb *gorm.DB) error {
	quoted := make([]string, len(db.Tables))
	for i, table := range db.Tables {
		quoted[i] = pgx.Identifier{table}.Sanitize()
	}

	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	return gdb.WithContext(ctx).Exec(stmt).Error
}
