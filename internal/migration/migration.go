// Package migration owns the MySQL schema of the inspection database.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Table that golang-migrate records the applied version in.
const versionTable = "tt_schema_migrations"

//go:embed migrations/*.sql
var files embed.FS

// Source returns the embedded migration files rooted at their directory.
func Source() (fs.FS, error) {
	return fs.Sub(files, "migrations")
}

// Result describes the schema state after Up.
type Result struct {
	Version uint
	Changed bool
}

// Up applies every pending migration to db. The handle stays open.
func Up(db *sql.DB) (Result, error) {
	if db == nil {
		return Result{}, errors.New("migration: nil database handle")
	}

	m, err := newMigrator(db)
	if err != nil {
		return Result{}, err
	}

	res := Result{Changed: true}
	if err := m.Up(); errors.Is(err, migrate.ErrNoChange) {
		res.Changed = false
	} else if err != nil {
		return Result{}, fmt.Errorf("migration: apply: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return Result{}, fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return Result{}, fmt.Errorf("migration: version %d is dirty", version)
	}
	res.Version = version
	return res, nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	sub, err := Source()
	if err != nil {
		return nil, fmt.Errorf("migration: open source: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: open source: %w", err)
	}
	drv, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: versionTable,
	})
	if err != nil {
		return nil, fmt.Errorf("migration: mysql driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "mysql", drv)
}
