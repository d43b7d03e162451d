package anomaly

import (
	"github.com/smallbiznis/forecourt/internal/anomaly/service"
	"go.uber.org/fx"
)

var Module = fx.Module("anomaly.service",
	fx.Provide(service.New),
)
