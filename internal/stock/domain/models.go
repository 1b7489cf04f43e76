package domain

import (
	"context"
	"time"
)

// Item is the part of an order line the engine reads.
type Item struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size,omitempty"`
	Flavors  []string `json:"flavors,omitempty"`
}

const ItemTypePizza = "pizza"

// Sizes and their consumption multipliers relative to a medium pizza.
const (
	SizeSmall  = "pequena"
	SizeMedium = "media"
	SizeLarge  = "grande"
)

// SizeMultiplier returns the consumption factor for size. Unknown or empty
// sizes count as medium.
func SizeMultiplier(size string) float64 {
	switch size {
	case SizeSmall:
		return 0.7
	case SizeLarge:
		return 1.3
	default:
		return 1.0
	}
}

// KnownSize reports whether size is one of the three menu sizes.
func KnownSize(size string) bool {
	return size == SizeSmall || size == SizeMedium || size == SizeLarge
}

// Wear accrued per pizza.
const (
	OvenMinutesPerPizza  = 15
	MixerMinutesPerPizza = 5
)

// EscalationPercent is the usage at which an order flips an operational
// machine to maintenance_needed.
const EscalationPercent = 90.0

type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records one engine run for an order.
type Outcome struct {
	OrderID            string              `json:"orderId"`
	Status             OutcomeStatus       `json:"status"`
	PizzasProduced     int                 `json:"pizzasProduced"`
	CookingMinutes     int                 `json:"cookingMinutes"`
	MixerHoursAdded    float64             `json:"mixerHoursAdded"`
	OvenHoursAdded     float64             `json:"ovenHoursAdded"`
	Consumptions       []Consumption       `json:"consumptions"`
	SkippedFlavors     []string            `json:"skippedFlavors"`
	MachineTransitions []MachineTransition `json:"machineTransitions"`
	Error              string              `json:"error,omitempty"`
	AppliedAt          time.Time           `json:"appliedAt"`
}

// Consumption aggregates what one order took from an ingredient. Consumed
// is lower than Requested when stock ran out.
type Consumption struct {
	IngredientID string  `json:"ingredientId"`
	Requested    float64 `json:"requested"`
	Consumed     float64 `json:"consumed"`
}

type MachineTransition struct {
	MachineID    string  `json:"machineId"`
	MachineType  string  `json:"machineType"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	UsagePercent float64 `json:"usagePercent"`
}

type Engine interface {
	ApplyOrder(ctx context.Context, orderID string, items []Item) (*Outcome, error)
}
