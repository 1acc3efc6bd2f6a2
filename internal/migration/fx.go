package migration

import (
	"github.com/czttgd/breakinfo/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(apply),
)

// apply runs at startup when database.migrate is set. Only MySQL carries
// embedded migrations; other dialects are expected to be provisioned.
func apply(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	log = log.Named("migration")
	if !cfg.Database.Migrate {
		log.Debug("schema migration disabled")
		return nil
	}
	if cfg.Database.Type != "mysql" {
		log.Warn("no migrations for database type", zap.String("type", cfg.Database.Type))
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	res, err := Up(sqlDB)
	if err != nil {
		return err
	}
	log.Info("schema ready", zap.Uint("version", res.Version), zap.Bool("changed", res.Changed))
	return nil
}
