package db

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ER_DUP_ENTRY
const mysqlDupEntry uint16 = 1062

var duplicateKeyMessages = []string{
	"Duplicate entry",              // mysql text protocol
	"UNIQUE constraint failed",     // sqlite
	"duplicate key value violates", // postgres 23505
}

// IsDuplicateKey reports whether err is a primary or unique key collision
// on any supported dialect.
func IsDuplicateKey(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return true
	}

	if myErr := (*mysqldriver.MySQLError)(nil); errors.As(err, &myErr) {
		return myErr.Number == mysqlDupEntry
	}

	msg := err.Error()
	for _, m := range duplicateKeyMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
