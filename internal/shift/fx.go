package shift

import (
	"github.com/smallbiznis/forecourt/internal/shift/repository"
	"github.com/smallbiznis/forecourt/internal/shift/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shift.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
