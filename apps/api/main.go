package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/availability"
	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/internal/datastore"
	"github.com/smallbiznis/pizzaria/internal/events"
	"github.com/smallbiznis/pizzaria/internal/events/broker"
	"github.com/smallbiznis/pizzaria/internal/ingredient"
	"github.com/smallbiznis/pizzaria/internal/liveevents"
	"github.com/smallbiznis/pizzaria/internal/machine"
	"github.com/smallbiznis/pizzaria/internal/maintenance"
	"github.com/smallbiznis/pizzaria/internal/menu"
	"github.com/smallbiznis/pizzaria/internal/migration"
	"github.com/smallbiznis/pizzaria/internal/observability"
	"github.com/smallbiznis/pizzaria/internal/order"
	"github.com/smallbiznis/pizzaria/internal/ratelimit"
	"github.com/smallbiznis/pizzaria/internal/recipe"
	"github.com/smallbiznis/pizzaria/internal/server"
	"github.com/smallbiznis/pizzaria/internal/stock"
	"github.com/smallbiznis/pizzaria/internal/stockledger"
	"github.com/smallbiznis/pizzaria/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		migration.Module,

		events.Module,
		liveevents.Module,
		broker.Module,
		ratelimit.Module,
		datastore.Module,

		ingredient.Module,
		recipe.Module,
		machine.Module,
		stock.Module,
		stockledger.Module,
		availability.Module,
		menu.Module,
		order.Module,
		// on-demand sweep endpoint; the periodic loop runs in apps/scheduler
		maintenance.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
