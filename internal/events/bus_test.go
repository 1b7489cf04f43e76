package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/pkg/telemetry/correlation"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	name   string
	err    error
	events []Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, evt Event) error {
	s.events = append(s.events, evt)
	return s.err
}

func TestBusDeliversToEverySinkEvenAfterFailure(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)
	failing := &recordingSink{name: "amqp", err: errors.New("channel closed")}
	hub := &recordingSink{name: "hub"}
	bus := newBus(zap.NewNop(), clock.NewFakeClock(now), failing, nil, hub)

	ctx := correlation.ContextWithCorrelationID(context.Background(), "cid-9")
	bus.Publish(ctx, OrderCreated, "1700000000000", map[string]int{"items": 2})

	require.Len(t, failing.events, 1)
	require.Len(t, hub.events, 1)

	evt := hub.events[0]
	require.Equal(t, OrderCreated, evt.Type)
	require.Equal(t, "1700000000000", evt.Subject)
	require.Equal(t, "cid-9", evt.Metadata.CorrelationID)
	require.Equal(t, now, evt.OccurredAt)
	require.NotEmpty(t, evt.ID)
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	bus.Publish(context.Background(), MachineUpdated, "1", nil)
	Nop{}.Publish(context.Background(), MachineUpdated, "1", nil)
}
