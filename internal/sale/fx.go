package sale

import (
	"github.com/smallbiznis/forecourt/internal/sale/repository"
	"github.com/smallbiznis/forecourt/internal/sale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sale.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideWriter),
	fx.Provide(service.New),
)
