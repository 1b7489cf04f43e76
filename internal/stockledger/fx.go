package stockledger

import (
	"github.com/smallbiznis/pizzaria/internal/stockledger/repository"
	"github.com/smallbiznis/pizzaria/internal/stockledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stockledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
