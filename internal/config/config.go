package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "BREAKINFO"
	configName     = "breakinfo"
	configPathEnv  = "BREAKINFO_CONFIG"
	DefaultDBName  = "breakInfo"
	defaultMaxBody = 50 << 20
)

// Config holds application configuration. It is built once at startup
// and handed to every constructor that needs it.
type Config struct {
	AppName     string `mapstructure:"app_name"`
	AppVersion  string `mapstructure:"app_version"`
	Environment string `mapstructure:"environment"`
	ListenPort  int    `mapstructure:"listen_port"`
	NodeID      int64  `mapstructure:"node_id"`

	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	CORS     CORSConfig     `mapstructure:"cors"`

	// file is the config file viper resolved, empty when running on
	// defaults and environment only.
	file string
}

type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`
	MaxIdleConn     int           `mapstructure:"max_idle_conn"`
	MaxOpenConn     int           `mapstructure:"max_open_conn"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Migrate         bool          `mapstructure:"migrate"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type TracingConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Endpoint      string  `mapstructure:"endpoint"`
	Protocol      string  `mapstructure:"protocol"`
	SamplingRatio float64 `mapstructure:"sampling_ratio"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from defaults, an optional TOML file and the
// environment, in increasing order of precedence. A .env file in the
// working directory only fills in variables the process environment
// does not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/breakinfo")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "breakinfo")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("environment", "development")
	v.SetDefault("listen_port", 8010)
	v.SetDefault("node_id", 1)

	v.SetDefault("database.type", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", DefaultDBName)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "breakinfo.db")
	v.SetDefault("database.max_idle_conn", 10)
	v.SetDefault("database.max_open_conn", 50)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", time.Minute)
	v.SetDefault("database.migrate", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("uploads.dir", "./uploaded-log")
	v.SetDefault("uploads.max_bytes", defaultMaxBody)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.protocol", "grpc")
	v.SetDefault("tracing.sampling_ratio", 0.1)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.file = v.ConfigFileUsed()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.AppName = strings.TrimSpace(c.AppName)
	if c.AppName == "" {
		c.AppName = "breakinfo"
	}
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Tracing.Protocol = strings.ToLower(strings.TrimSpace(c.Tracing.Protocol))
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = defaultMaxBody
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid listen_port %d", c.ListenPort)
	}
	switch c.Database.Type {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("node_id %d out of range [0,1023]", c.NodeID)
	}
	return nil
}

// File returns the config file in use, if any.
func (c Config) File() string {
	return c.file
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.ListenPort)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
