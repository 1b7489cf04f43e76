package ingredient

import (
	"github.com/smallbiznis/pizzaria/internal/ingredient/repository"
	"github.com/smallbiznis/pizzaria/internal/ingredient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingredient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
