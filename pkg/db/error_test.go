package db

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/czttgd/breakinfo/internal/config"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1700000000001' for key 'PRIMARY'"})))
	assert.False(t, IsDuplicateKey(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: tt_inspection.id")))
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DatabaseConfig{
		Host:     "10.0.0.5",
		Port:     3306,
		Name:     "breakInfo",
		User:     "dao",
		Password: "p@ss",
	})
	parsed, err := mysqldriver.ParseDSN(dsn)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.5:3306", parsed.Addr)
	assert.Equal(t, "breakInfo", parsed.DBName)
	assert.Equal(t, "dao", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.True(t, parsed.ParseTime)
}

func TestDialectRejectsUnknown(t *testing.T) {
	_, err := Dialect(config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)

	d, err := Dialect(config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}
