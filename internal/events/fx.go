package events

import "go.uber.org/fx"

var Module = fx.Module("events",
	fx.Provide(
		NewBus,
		func(b *Bus) Publisher { return b },
	),
)

// AsSink registers a constructor's result in the bus sink group.
func AsSink(f any) any {
	return fx.Annotate(f, fx.As(new(Sink)), fx.ResultTags(`group:"event_sinks"`))
}
