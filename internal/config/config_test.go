package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "breakinfo", cfg.AppName)
	assert.Equal(t, 8010, cfg.ListenPort)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breakinfo.toml")
	content := `
listen_port = 9000
environment = "Production"

[database]
host = "db.plant.local"
port = 3307
user = "inspector"
password = "secret"
conn_max_lifetime = "10m"

[logging]
level = "DEBUG"
file = "/var/log/breakinfo.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("BREAKINFO_DATABASE_PASSWORD", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ListenPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "db.plant.local", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.Name)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/breakinfo.log", cfg.Logging.File)
	assert.Equal(t, "./uploaded-log", cfg.Uploads.Dir)
	assert.EqualValues(t, 50<<20, cfg.Uploads.MaxBytes)
	assert.Equal(t, path, cfg.File())
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
}

func TestValidate(t *testing.T) {
	base := Config{ListenPort: 8010, Database: DatabaseConfig{Type: "mysql"}, NodeID: 1}
	require.NoError(t, base.Validate())

	badPort := base
	badPort.ListenPort = 0
	assert.Error(t, badPort.Validate())

	badDB := base
	badDB.Database.Type = "oracle"
	assert.Error(t, badDB.Validate())

	badNode := base
	badNode.NodeID = 4096
	assert.Error(t, badNode.Validate())
}

func TestWatchWithoutFileIsNoop(t *testing.T) {
	called := false
	require.NoError(t, Watch(Config{}, func(Config) { called = true }))
	assert.False(t, called)
	assert.Error(t, Watch(Config{}, nil))
}

func TestDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := "BREAKINFO_DATABASE_HOST=from-dotenv\nBREAKINFO_APP_VERSION=9.9.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))
	t.Chdir(dir)

	t.Setenv(configPathEnv, "")
	t.Setenv("BREAKINFO_DATABASE_HOST", "from-process")
	t.Setenv("BREAKINFO_APP_VERSION", "")
	require.NoError(t, os.Unsetenv("BREAKINFO_APP_VERSION"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.Database.Host)
	assert.Equal(t, "9.9.9", cfg.AppVersion)
}
