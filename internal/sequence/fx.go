package sequence

import (
	"github.com/czttgd/breakinfo/internal/sequence/repository"
	"github.com/czttgd/breakinfo/internal/sequence/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
