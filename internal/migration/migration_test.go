package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	sub, err := Source()
	require.NoError(t, err)

	entries, err := fs.ReadDir(sub, ".")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	driver, err := iofs.New(sub, ".")
	require.NoError(t, err)
	first, err := driver.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)
}

func TestInitMigrationCreatesCoreTables(t *testing.T) {
	sub, err := Source()
	require.NoError(t, err)
	body, err := fs.ReadFile(sub, "0001_init.up.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"tt_user", "tt_break_cause", "tt_breakpoint",
		"tt_machine", "tt_inspection_counter", "tt_inspection",
	} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, string(body), "INSERT INTO tt_inspection_counter")
}

func TestUpRequiresHandle(t *testing.T) {
	_, err := Up(nil)
	assert.Error(t, err)
}
