package menu

import (
	"github.com/smallbiznis/pizzaria/internal/menu/repository"
	"github.com/smallbiznis/pizzaria/internal/menu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menu.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
