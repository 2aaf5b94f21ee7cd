package db

import (
	"fmt"
	"time"

	"github.com/chirp-dev/chirp/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxOpenConns    = 50
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
)

// ConnectDatabase opens a pooled PostgreSQL connection for the given DSN.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	gdb, err := Open(postgres.Open(dsn))

	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()

	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return gdb, nil
}

// Open wraps gorm.Open with the settings every connection in this project
// needs. TranslateError makes drivers report constraint violations as
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})

	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return gdb, nil
}

// Models lists every entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
	}
}

// Tables lists the entity tables, children first, for bulk resets.
var Tables = []string{"comment", "post", "user"}

// MigrateDatabase creates any missing entity tables from the GORM models.
func MigrateDatabase(gdb *gorm.DB) error {
	migrator := gdb.Migrator()

	for _, model := range Models() {
		if !migrator.HasTable(model) {
			if err := gdb.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
