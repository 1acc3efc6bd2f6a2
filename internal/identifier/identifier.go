// Package identifier mints inspection record ids of the form
// <unix seconds><3-digit sequence>.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/czttgd/breakinfo/internal/clock"
	"github.com/czttgd/breakinfo/internal/observability/metrics"
	seqdomain "github.com/czttgd/breakinfo/internal/sequence/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrFormat = errors.New("identifier_format")

type Params struct {
	fx.In

	Clock     clock.Clock
	Allocator seqdomain.Allocator
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

type Generator struct {
	clock     clock.Clock
	allocator seqdomain.Allocator
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(p Params) *Generator {
	return &Generator{
		clock:     p.Clock,
		allocator: p.Allocator,
		log:       p.Log.Named("identifier"),
		metrics:   p.Metrics,
	}
}

// Generate allocates the next sequence value and joins it to the current
// Unix second. Ids minted within one second increase unless the counter
// wraps during that second.
func (g *Generator) Generate(ctx context.Context) (int64, error) {
	now := g.clock.Now().Unix()
	seq, err := g.allocator.Allocate(ctx)
	if err != nil {
		return 0, err
	}

	id, err := Compose(now, seq)
	if err != nil {
		g.log.Error("identifier composition failed",
			zap.Int64("unix", now),
			zap.Int("sequence", seq),
			zap.Error(err),
		)
		return 0, err
	}
	g.metrics.RecordIdentifier()
	return id, nil
}

// Compose formats unix followed by seq zero-padded to three digits and
// parses the result.
func Compose(unix int64, seq int) (int64, error) {
	if seq < 0 || seq > seqdomain.MaxValue {
		return 0, fmt.Errorf("%w: sequence %d", ErrFormat, seq)
	}
	if unix < 0 {
		return 0, fmt.Errorf("%w: timestamp %d", ErrFormat, unix)
	}
	id, err := strconv.ParseInt(fmt.Sprintf("%d%03d", unix, seq), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return id, nil
}

var Module = fx.Module("identifier",
	fx.Provide(New),
)
