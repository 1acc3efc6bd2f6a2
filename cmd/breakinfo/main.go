package main

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/czttgd/breakinfo/internal/clock"
	"github.com/czttgd/breakinfo/internal/config"
	"github.com/czttgd/breakinfo/internal/diaglog"
	"github.com/czttgd/breakinfo/internal/identifier"
	"github.com/czttgd/breakinfo/internal/inspection"
	"github.com/czttgd/breakinfo/internal/lookup"
	"github.com/czttgd/breakinfo/internal/migration"
	"github.com/czttgd/breakinfo/internal/observability"
	"github.com/czttgd/breakinfo/internal/sequence"
	"github.com/czttgd/breakinfo/internal/server"
	"github.com/czttgd/breakinfo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,

		// Domains
		sequence.Module,
		identifier.Module,
		lookup.Module,
		inspection.Module,
		diaglog.Module,

		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

// RegisterSnowflake builds the node that names uploaded log files.
func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", cfg.NodeID, err)
	}
	return node, nil
}
