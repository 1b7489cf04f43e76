package domain

import (
	"context"

	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
)

// SmallestPortion is the size multiplier a pizza must be able to cover to
// stay on the menu.
const SmallestPortion = 0.7

// PizzaView is a menu pizza as shown to customers. Available combines the
// admin flag with StockAvailable.
type PizzaView struct {
	menudomain.Pizza
	StockAvailable bool `json:"stockAvailable"`
}

type Service interface {
	IsAvailable(ctx context.Context, pizzaID, pizzaName string) bool
	Project(ctx context.Context, pizzas []menudomain.Pizza) []PizzaView
}
