package availability

import (
	"github.com/smallbiznis/pizzaria/internal/availability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("availability.service",
	fx.Provide(service.New),
)
