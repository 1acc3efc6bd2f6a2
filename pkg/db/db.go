package db

import (
	"context"
	"fmt"

	"github.com/czttgd/breakinfo/internal/config"
	"github.com/czttgd/breakinfo/internal/observability"
	obslogger "github.com/czttgd/breakinfo/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprom "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       config.Config
	ObsCfg    observability.Config
	Log       *zap.Logger
}

// Open connects the shared connection pool, installs tracing and pool
// metrics plugins and closes the pool on shutdown.
func Open(p Params) (*gorm.DB, error) {
	dbCfg := p.Cfg.Database
	dialector, err := Dialect(dbCfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 obslogger.NewGormLogger(p.Log, obslogger.DefaultGormLoggerConfig(p.ObsCfg.Debug())),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbCfg.Type, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if dbCfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConn)
	}
	if dbCfg.MaxIdleConn >= 0 {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConn)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(dbCfg.ConnMaxIdleTime)
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbCfg.Name))); err != nil {
		p.Log.Warn("failed to install otelgorm plugin", zap.Error(err))
	}
	if err := conn.Use(gormprom.New(promConfig(dbCfg))); err != nil {
		p.Log.Warn("failed to install gorm prometheus plugin", zap.Error(err))
	}

	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return sqlDB.PingContext(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return sqlDB.Close()
			},
		})
	}

	p.Log.Info("database configured",
		zap.String("type", dbCfg.Type),
		zap.String("host", dbCfg.Host),
		zap.String("name", dbCfg.Name),
		zap.Int("max_open_conn", dbCfg.MaxOpenConn),
	)
	return conn, nil
}

func promConfig(cfg config.DatabaseConfig) gormprom.Config {
	promCfg := gormprom.Config{
		DBName:          cfg.Name,
		RefreshInterval: 15,
		StartServer:     false,
	}
	if cfg.Type == "mysql" {
		promCfg.MetricsCollector = []gormprom.MetricsCollector{
			&gormprom.MySQL{VariableNames: []string{"Threads_running", "Threads_connected"}},
		}
	}
	return promCfg
}
