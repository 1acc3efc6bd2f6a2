package inspection

import (
	"github.com/czttgd/breakinfo/internal/identifier"
	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/internal/inspection/repository"
	"github.com/czttgd/breakinfo/internal/inspection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inspection.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(g *identifier.Generator) domain.IDGenerator { return g }),
	fx.Provide(service.New),
)
