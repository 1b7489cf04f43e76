package events

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/pizzaria/pkg/telemetry/correlation"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	StockAdjusted      Type = "stock.adjusted"
	IngredientUpdated  Type = "ingredient.updated"
	MachineUpdated     Type = "machine.updated"
	MaintenanceSwept   Type = "maintenance.swept"
	CollectionChanged  Type = "collection.changed"
	MenuChanged        Type = "menu.changed"
)

// Topic is the hub stream every kitchen event goes to.
const Topic = "kitchen"

// Event is the envelope pushed to SSE subscribers and the broker.
type Event struct {
	ID         string               `json:"id"`
	Type       Type                 `json:"type"`
	Subject    string               `json:"subject,omitempty"`
	Data       any                  `json:"data,omitempty"`
	Metadata   correlation.Metadata `json:"metadata"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// New stamps an event with an id and the correlation data found in ctx.
func New(ctx context.Context, typ Type, subject string, data any, now time.Time) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       typ,
		Subject:    subject,
		Data:       data,
		Metadata:   correlation.MetadataFromContext(ctx, now),
		OccurredAt: now.UTC(),
	}
}

// Publisher never fails the caller; delivery problems are logged by the sinks.
type Publisher interface {
	Publish(ctx context.Context, typ Type, subject string, data any)
}

// Sink receives every published event.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt Event) error
}
