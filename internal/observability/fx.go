package observability

import (
	"github.com/czttgd/breakinfo/internal/config"
	"github.com/czttgd/breakinfo/internal/observability/logger"
	"github.com/czttgd/breakinfo/internal/observability/metrics"
	"github.com/czttgd/breakinfo/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		provideRegisterer,
		metrics.New,
	),
	fx.Invoke(ensureTracingProvider),
	fx.Invoke(watchLogLevel),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		File:                cfg.LogFile,
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.TracingEndpoint,
		ExporterProtocol: cfg.TracingProtocol,
		SamplingRatio:    cfg.TracingSamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}

func provideRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// watchLogLevel applies logging.level changes from the config file
// without a restart.
func watchLogLevel(cfg config.Config, level zap.AtomicLevel, log *zap.Logger) error {
	return config.Watch(cfg, func(updated config.Config) {
		next, err := logger.ParseLevel(updated.Logging.Level)
		if err != nil {
			log.Warn("ignoring invalid log level from config", zap.Error(err))
			return
		}
		if next != level.Level() {
			level.SetLevel(next)
			log.Info("log level changed", zap.String("level", next.String()))
		}
	})
}
