package tank

import (
	"github.com/smallbiznis/forecourt/internal/tank/repository"
	"github.com/smallbiznis/forecourt/internal/tank/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tank.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
