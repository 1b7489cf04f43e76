package service

import (
	"math/rand"
	"testing"
	"time"

	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 1, 18, 0, 0, 0, time.UTC)

func fixtureRecipes() []recipedomain.Recipe {
	return []recipedomain.Recipe{
		{
			PizzaID:   "1",
			PizzaName: "Margherita",
			BaseIngredients: []recipedomain.Ingredient{
				{IngredientID: "molho-tomate", Quantity: 0.2},
				{IngredientID: "mussarela", Quantity: 0.3},
			},
			SpecificIngredients: []recipedomain.Ingredient{{IngredientID: "manjericao", Quantity: 0.05}},
		},
		{
			PizzaID:   "2",
			PizzaName: "Pepperoni",
			BaseIngredients: []recipedomain.Ingredient{
				{IngredientID: "molho-tomate", Quantity: 0.2},
				{IngredientID: "mussarela", Quantity: 0.3},
			},
			SpecificIngredients: []recipedomain.Ingredient{{IngredientID: "pepperoni", Quantity: 0.15}},
		},
	}
}

func fixtureIngredients() []ingredientdomain.Ingredient {
	return []ingredientdomain.Ingredient{
		{ID: "molho-tomate", Stock: 50, Unit: "kg"},
		{ID: "mussarela", Stock: 30, Unit: "kg"},
		{ID: "manjericao", Stock: 2, Unit: "kg"},
		{ID: "pepperoni", Stock: 10, Unit: "kg"},
	}
}

func stockOf(items []ingredientdomain.Ingredient, id string) float64 {
	for _, i := range items {
		if i.ID == id {
			return i.Stock
		}
	}
	return -1
}

func consumedBy(t *testing.T, item stockdomain.Item) map[string]float64 {
	t.Helper()
	ingredients := fixtureIngredients()
	before := map[string]float64{}
	for _, i := range ingredients {
		before[i.ID] = i.Stock
	}
	var out stockdomain.Outcome
	apply(testNow, ingredients, nil, fixtureRecipes(), []stockdomain.Item{item}, &out)

	used := map[string]float64{}
	for _, i := range ingredients {
		used[i.ID] = before[i.ID] - i.Stock
	}
	return used
}

func TestApplyLargeConsumesOnePointThreeTimesMedium(t *testing.T) {
	medium := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1, Size: "media"})
	large := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1, Size: "grande"})

	for _, id := range []string{"molho-tomate", "mussarela", "pepperoni"} {
		require.Greater(t, medium[id], 0.0, id)
		require.InDelta(t, medium[id]*1.3, large[id], 1e-9, id)
	}
}

func TestApplySmallAndUnknownSizes(t *testing.T) {
	small := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1, Size: "pequena"})
	require.InDelta(t, 0.3*0.7, small["mussarela"], 1e-9)

	unknown := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1, Size: "familia"})
	require.InDelta(t, 0.3, unknown["mussarela"], 1e-9)

	missing := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1})
	require.InDelta(t, 0.3, missing["mussarela"], 1e-9)
}

func TestApplyTwoFlavorsSplitConsumption(t *testing.T) {
	half := consumedBy(t, stockdomain.Item{
		Type: "pizza", Name: "Meia Margherita / Meia Pepperoni", Quantity: 1, Size: "media",
		Flavors: []string{"Margherita", "Pepperoni"},
	})
	wholeMargherita := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Margherita", Quantity: 1, Size: "media"})
	wholePepperoni := consumedBy(t, stockdomain.Item{Type: "pizza", Name: "Pepperoni", Quantity: 1, Size: "media"})

	require.InDelta(t, wholeMargherita["manjericao"]/2, half["manjericao"], 1e-9)
	require.InDelta(t, wholePepperoni["pepperoni"]/2, half["pepperoni"], 1e-9)
	// Shared base ingredients add up to one whole pizza.
	require.InDelta(t, wholeMargherita["mussarela"], half["mussarela"], 1e-9)
}

func TestApplyMissingRecipeStillAccruesWear(t *testing.T) {
	ingredients := fixtureIngredients()
	machines := []machinedomain.Machine{
		{ID: "m", Type: machinedomain.TypeMixer, Status: machinedomain.StatusOperational, MaxHours: 1000},
		{ID: "o", Type: machinedomain.TypeOven, Status: machinedomain.StatusOperational, MaxHours: 1000},
	}
	var out stockdomain.Outcome
	apply(testNow, ingredients, machines, fixtureRecipes(), []stockdomain.Item{
		{Type: "pizza", Name: "Portuguesa", Quantity: 2, Size: "grande"},
		{Type: "pizza", Name: "Meia", Quantity: 1, Flavors: []string{"Calabresa", "Pepperoni"}},
	}, &out)

	require.Equal(t, []string{"Portuguesa", "Calabresa"}, out.SkippedFlavors)
	require.Equal(t, 3, out.PizzasProduced)
	require.Equal(t, 45, out.CookingMinutes)
	require.InDelta(t, 0.25, machines[0].HoursUsed, 1e-9)
	require.InDelta(t, 0.75, machines[1].HoursUsed, 1e-9)
	require.InDelta(t, 10-0.15/2, stockOf(ingredients, "pepperoni"), 1e-9)
}

func TestApplyClampsStockAtZero(t *testing.T) {
	ingredients := []ingredientdomain.Ingredient{{ID: "mussarela", Stock: 0.4}}
	var out stockdomain.Outcome
	apply(testNow, ingredients, nil, fixtureRecipes(), []stockdomain.Item{
		{Type: "pizza", Name: "Margherita", Quantity: 3, Size: "grande"},
	}, &out)

	require.Equal(t, 0.0, ingredients[0].Stock)
	require.Equal(t, testNow, ingredients[0].LastUpdated)
	require.Len(t, out.Consumptions, 1)
	require.InDelta(t, 0.3*1.3*3, out.Consumptions[0].Requested, 1e-9)
	require.InDelta(t, 0.4, out.Consumptions[0].Consumed, 1e-9)
}

func TestApplyIgnoresComplements(t *testing.T) {
	ingredients := fixtureIngredients()
	machines := []machinedomain.Machine{
		{ID: "m", Type: machinedomain.TypeMixer, Status: machinedomain.StatusOperational, HoursUsed: 1, MaxHours: 100},
	}
	var out stockdomain.Outcome
	apply(testNow, ingredients, machines, fixtureRecipes(), []stockdomain.Item{
		{Type: "complement", Name: "Coca-Cola 350ml", Quantity: 4},
	}, &out)

	require.Zero(t, out.PizzasProduced)
	require.Zero(t, out.MixerHoursAdded)
	require.Equal(t, 1.0, machines[0].HoursUsed)
	require.Equal(t, fixtureIngredients(), ingredients)
}

func TestApplyTwoMediumPepperoniHeatOvenHalfHour(t *testing.T) {
	machines := []machinedomain.Machine{
		{ID: "1", Type: machinedomain.TypeOven, Status: machinedomain.StatusOperational, MaxHours: 100},
	}
	var out stockdomain.Outcome
	apply(testNow, fixtureIngredients(), machines, fixtureRecipes(), []stockdomain.Item{
		{Type: "pizza", Name: "Pepperoni", Quantity: 2, Size: "media"},
	}, &out)

	require.Equal(t, 30, out.CookingMinutes)
	require.InDelta(t, 0.5, machines[0].HoursUsed, 1e-9)
	require.Equal(t, machinedomain.StatusOperational, machines[0].Status)
	require.Empty(t, out.MachineTransitions)
}

func TestApplyEscalatesMixerAtNinetyPercent(t *testing.T) {
	machines := []machinedomain.Machine{
		{ID: "2", Type: machinedomain.TypeMixer, Status: machinedomain.StatusOperational, HoursUsed: 94, MaxHours: 100, Notes: "ok"},
	}
	var out stockdomain.Outcome
	apply(testNow, nil, machines, nil, []stockdomain.Item{
		{Type: "pizza", Name: "Margherita", Quantity: 10},
	}, &out)

	require.InDelta(t, 94.8333, machines[0].HoursUsed, 1e-3)
	require.Equal(t, machinedomain.StatusMaintenanceNeeded, machines[0].Status)
	require.Equal(t, "Maintenance needed - 94.8% of rated hours reached", machines[0].Notes)
	require.Len(t, out.MachineTransitions, 1)
	require.Equal(t, "2", out.MachineTransitions[0].MachineID)
}

func TestApplyDoesNotTouchNonOperationalMachines(t *testing.T) {
	machines := []machinedomain.Machine{
		{ID: "1", Type: machinedomain.TypeOven, Status: machinedomain.StatusUnderMaintenance, HoursUsed: 99, MaxHours: 100, Notes: "servicing"},
	}
	var out stockdomain.Outcome
	apply(testNow, nil, machines, nil, []stockdomain.Item{{Type: "pizza", Name: "X", Quantity: 4}}, &out)

	require.Equal(t, 100.0, machines[0].HoursUsed)
	require.Equal(t, machinedomain.StatusUnderMaintenance, machines[0].Status)
	require.Equal(t, "servicing", machines[0].Notes)
}

func TestApplyOnlyFirstMachineOfEachTypeAccrues(t *testing.T) {
	machines := []machinedomain.Machine{
		{ID: "a", Type: machinedomain.TypeOven, Status: machinedomain.StatusOperational, MaxHours: 100},
		{ID: "b", Type: machinedomain.TypeOven, Status: machinedomain.StatusOperational, MaxHours: 100},
	}
	var out stockdomain.Outcome
	apply(testNow, nil, machines, nil, []stockdomain.Item{{Type: "pizza", Name: "X", Quantity: 4}}, &out)

	require.InDelta(t, 1.0, machines[0].HoursUsed, 1e-9)
	require.Zero(t, machines[1].HoursUsed)
}

func TestApplyStockNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []string{"pequena", "media", "grande", ""}
	names := []string{"Margherita", "Pepperoni", "Portuguesa"}

	ingredients := fixtureIngredients()
	for round := 0; round < 200; round++ {
		items := make([]stockdomain.Item, 1+rng.Intn(4))
		for i := range items {
			items[i] = stockdomain.Item{
				Type:     "pizza",
				Name:     names[rng.Intn(len(names))],
				Quantity: 1 + rng.Intn(5),
				Size:     sizes[rng.Intn(len(sizes))],
			}
			if rng.Intn(3) == 0 {
				items[i].Flavors = []string{names[rng.Intn(len(names))], names[rng.Intn(len(names))]}
			}
		}
		var out stockdomain.Outcome
		apply(testNow, ingredients, nil, fixtureRecipes(), items, &out)

		for _, ing := range ingredients {
			require.GreaterOrEqual(t, ing.Stock, 0.0, "round %d ingredient %s", round, ing.ID)
		}
		for _, c := range out.Consumptions {
			require.LessOrEqual(t, c.Consumed, c.Requested+1e-9)
		}
	}
}
