package observability

import (
	"strings"

	"github.com/czttgd/breakinfo/internal/config"
)

// Config holds observability settings derived from the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string
	LogFile   string

	TracingEnabled       bool
	TracingEndpoint      string
	TracingProtocol      string
	TracingSamplingRatio float64
}

func LoadConfig(cfg config.Config) Config {
	return Config{
		ServiceName:          cfg.AppName,
		Environment:          cfg.Environment,
		Version:              cfg.AppVersion,
		LogLevel:             cfg.Logging.Level,
		LogFormat:            cfg.Logging.Format,
		LogFile:              cfg.Logging.File,
		TracingEnabled:       cfg.Tracing.Enabled,
		TracingEndpoint:      cfg.Tracing.Endpoint,
		TracingProtocol:      cfg.Tracing.Protocol,
		TracingSamplingRatio: cfg.Tracing.SamplingRatio,
	}
}

func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
