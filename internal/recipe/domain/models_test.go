package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchNameExactIgnoresCase(t *testing.T) {
	recipes := []Recipe{{PizzaName: "Margherita"}, {PizzaName: "Pepperoni"}}

	got, ok := MatchName(recipes, "pepperoni")
	require.True(t, ok)
	require.Equal(t, "Pepperoni", got.PizzaName)
}

func TestMatchNameSubstring(t *testing.T) {
	recipes := []Recipe{{PizzaName: "Margherita"}}

	got, ok := MatchName(recipes, "Pizza Margherita (meia)")
	require.True(t, ok)
	require.Equal(t, "Margherita", got.PizzaName)

	_, ok = MatchName(recipes, "Marg")
	require.False(t, ok)
}

// Overlapping names resolve to whichever recipe is registered first.
func TestMatchNameCollisionFirstRegisteredWins(t *testing.T) {
	recipes := []Recipe{{PizzaName: "Calabresa"}, {PizzaName: "Calabresa Especial"}}

	got, ok := MatchName(recipes, "Calabresa Especial")
	require.True(t, ok)
	require.Equal(t, "Calabresa", got.PizzaName)

	reversed := []Recipe{{PizzaName: "Calabresa Especial"}, {PizzaName: "Calabresa"}}
	got, ok = MatchName(reversed, "Calabresa Especial")
	require.True(t, ok)
	require.Equal(t, "Calabresa Especial", got.PizzaName)
}

func TestMatchNameEmpty(t *testing.T) {
	_, ok := MatchName([]Recipe{{PizzaName: ""}}, "Margherita")
	require.False(t, ok)

	_, ok = MatchName([]Recipe{{PizzaName: "Margherita"}}, "  ")
	require.False(t, ok)
}

func TestMatchPizzaByIDOrExactName(t *testing.T) {
	recipes := []Recipe{
		{PizzaID: "1", PizzaName: "Margherita"},
		{PizzaName: "Pepperoni"},
	}

	got, ok := MatchPizza(recipes, "1", "whatever")
	require.True(t, ok)
	require.Equal(t, "Margherita", got.PizzaName)

	got, ok = MatchPizza(recipes, "2", "PEPPERONI")
	require.True(t, ok)
	require.Equal(t, "Pepperoni", got.PizzaName)

	_, ok = MatchPizza(recipes, "3", "Pepperoni Especial")
	require.False(t, ok)
}

func TestIngredientsOrder(t *testing.T) {
	r := Recipe{
		BaseIngredients:     []Ingredient{{IngredientID: "molho-tomate", Quantity: 0.2}},
		SpecificIngredients: []Ingredient{{IngredientID: "pepperoni", Quantity: 0.1}},
	}
	require.Equal(t, []Ingredient{
		{IngredientID: "molho-tomate", Quantity: 0.2},
		{IngredientID: "pepperoni", Quantity: 0.1},
	}, r.Ingredients())
}
