package broker

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events.broker",
	fx.Provide(
		NewClient,
		fx.Annotate(provideSink, fx.ResultTags(`group:"event_sinks"`)),
	),
)

// NewClient returns nil when AMQP_URL is unset.
func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*Client, error) {
	if !cfg.AMQP.Enabled() {
		return nil, nil
	}
	client, err := Dial(context.Background(), cfg.AMQP.URL, cfg.AMQP.Exchange, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			client.Close()
			return nil
		},
	})
	return client, nil
}

func provideSink(c *Client) events.Sink {
	if c == nil {
		return nil
	}
	return c
}
