package purchase

import (
	"github.com/smallbiznis/forecourt/internal/purchase/repository"
	"github.com/smallbiznis/forecourt/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideWriter),
	fx.Provide(service.New),
)
