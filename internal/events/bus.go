package events

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type BusParams struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Sinks []Sink `group:"event_sinks"`
}

// Bus fans events out to every configured sink.
type Bus struct {
	log   *zap.Logger
	clock clock.Clock
	sinks []Sink
}

func NewBus(p BusParams) *Bus {
	return newBus(p.Log, p.Clock, p.Sinks...)
}

func newBus(log *zap.Logger, clk clock.Clock, sinks ...Sink) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Bus{
		log:   log.Named("events.bus"),
		clock: clk,
		sinks: active,
	}
}

func (b *Bus) Publish(ctx context.Context, typ Type, subject string, data any) {
	if b == nil {
		return
	}
	ctx, span := otel.Tracer("pizzaria/events").Start(ctx, "events.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("event.type", string(typ))),
	)
	defer span.End()

	evt := New(ctx, typ, subject, data, b.clock.Now())
	for _, sink := range b.sinks {
		if err := sink.Deliver(ctx, evt); err != nil {
			b.log.Warn("event delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("event_type", string(typ)),
				zap.String("event_id", evt.ID),
				zap.Error(err),
			)
		}
	}
}

// Nop discards events; used by tools that do not run the bus.
type Nop struct{}

func (Nop) Publish(context.Context, Type, string, any) {}

var (
	_ Publisher = (*Bus)(nil)
	_ Publisher = Nop{}
)
