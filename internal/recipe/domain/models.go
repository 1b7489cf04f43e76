package domain

import "strings"

// Recipe lists per-ingredient quantities for one medium, single-flavor pizza.
type Recipe struct {
	PizzaID             string       `json:"pizzaId,omitempty"`
	PizzaName           string       `json:"pizzaName"`
	BaseIngredients     []Ingredient `json:"baseIngredients"`
	SpecificIngredients []Ingredient `json:"specificIngredients"`
}

type Ingredient struct {
	IngredientID string  `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// Ingredients returns base ingredients followed by specific ones.
func (r Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(r.BaseIngredients)+len(r.SpecificIngredients))
	out = append(out, r.BaseIngredients...)
	return append(out, r.SpecificIngredients...)
}

// MatchName walks recipes in file order and returns the first whose name
// equals pizzaName or is contained in it, ignoring case.
func MatchName(recipes []Recipe, pizzaName string) (*Recipe, bool) {
	query := strings.ToLower(strings.TrimSpace(pizzaName))
	if query == "" {
		return nil, false
	}
	for i := range recipes {
		name := strings.ToLower(strings.TrimSpace(recipes[i].PizzaName))
		if name == "" {
			continue
		}
		if name == query || strings.Contains(query, name) {
			return &recipes[i], true
		}
	}
	return nil, false
}

// MatchPizza returns the first recipe bound to pizzaID or named exactly
// pizzaName, ignoring case. Substrings do not match here.
func MatchPizza(recipes []Recipe, pizzaID, pizzaName string) (*Recipe, bool) {
	name := strings.TrimSpace(pizzaName)
	for i := range recipes {
		if pizzaID != "" && recipes[i].PizzaID == pizzaID {
			return &recipes[i], true
		}
		if name != "" && strings.EqualFold(strings.TrimSpace(recipes[i].PizzaName), name) {
			return &recipes[i], true
		}
	}
	return nil, false
}
