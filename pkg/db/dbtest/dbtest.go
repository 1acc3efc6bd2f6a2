// Package dbtest opens isolated in-memory SQLite databases carrying the
// inspection schema for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema mirrors the MySQL migration in SQLite syntax.
var Schema = []string{
	`CREATE TABLE tt_user (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE tt_break_cause (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		cause TEXT NOT NULL
	)`,
	`CREATE TABLE tt_breakpoint (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE tt_machine (
		machine_no INTEGER PRIMARY KEY,
		stage INTEGER NOT NULL
	)`,
	`CREATE TABLE tt_inspection_counter (
		num INTEGER NOT NULL
	)`,
	`CREATE TABLE tt_inspection (
		id INTEGER PRIMARY KEY,
		creator INTEGER NOT NULL,
		device_code INTEGER NOT NULL,
		device_category TEXT NOT NULL DEFAULT '',
		creation_time TEXT NOT NULL,
		product_spec TEXT NULL,
		wire_speed INTEGER NULL,
		wire_number INTEGER NULL,
		break_spec TEXT NOT NULL,
		wire_batch_code TEXT NULL,
		stick_batch_code TEXT NULL,
		warehouse TEXT NULL,
		break_flag CHAR(1) NOT NULL,
		breakpoint_a INTEGER NULL,
		breakpoint_b DECIMAL(10,2) NULL,
		comments TEXT NULL,
		break_cause_a INTEGER NOT NULL,
		break_cause_b INTEGER NULL,
		inspection_flag INTEGER NOT NULL DEFAULT 0,
		inspector INTEGER NULL,
		inspection_time TEXT NULL,
		is_deleted INTEGER NOT NULL DEFAULT 0
	)`,
}

// Open returns a fresh database named after the test with the schema
// applied and the counter seeded with counter.
func Open(t *testing.T, counter int) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// one connection keeps the shared in-memory database alive and
	// serializes transactions; it does not exercise row locks
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range Schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	if err := db.Exec(`INSERT INTO tt_inspection_counter (num) VALUES (?)`, counter).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	return db
}

// MustExec runs stmt and fails the test on error.
func MustExec(t *testing.T, db *gorm.DB, stmt string, args ...any) {
	t.Helper()
	if err := db.Exec(stmt, args...).Error; err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}
