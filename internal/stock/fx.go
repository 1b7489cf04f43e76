package stock

import (
	"github.com/smallbiznis/pizzaria/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.engine",
	fx.Provide(service.New),
)
