package liveevents

import (
	"github.com/smallbiznis/pizzaria/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Module("live.events",
	fx.Provide(NewHub),
	fx.Provide(fx.Annotate(
		func(h *Hub) events.Sink { return h },
		fx.ResultTags(`group:"event_sinks"`),
	)),
)
