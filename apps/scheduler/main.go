package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/internal/datastore"
	"github.com/smallbiznis/pizzaria/internal/events"
	"github.com/smallbiznis/pizzaria/internal/events/broker"
	"github.com/smallbiznis/pizzaria/internal/ingredient"
	"github.com/smallbiznis/pizzaria/internal/machine"
	"github.com/smallbiznis/pizzaria/internal/maintenance"
	"github.com/smallbiznis/pizzaria/internal/observability"
	"github.com/smallbiznis/pizzaria/internal/ratelimit"
	"github.com/smallbiznis/pizzaria/internal/scheduler"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		events.Module,
		broker.Module,
		// shares the collection lock with the API processes
		ratelimit.Module,
		datastore.Module,

		ingredient.Module,
		machine.Module,
		maintenance.Module,

		// No server module!
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
