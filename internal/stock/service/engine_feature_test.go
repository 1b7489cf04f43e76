package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/datastore"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	ingredientrepo "github.com/smallbiznis/pizzaria/internal/ingredient/repository"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	machinerepo "github.com/smallbiznis/pizzaria/internal/machine/repository"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	reciperepo "github.com/smallbiznis/pizzaria/internal/recipe/repository"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const featureTolerance = 1e-3

type engineTestContext struct {
	recipes     []recipedomain.Recipe
	ingredients []ingredientdomain.Ingredient
	machines    []machinedomain.Machine

	store   *jsonstore.Store
	engine  stockdomain.Engine
	outcome *stockdomain.Outcome
}

func (c *engineTestContext) reset() {
	*c = engineTestContext{}
}

func (c *engineTestContext) aRecipeNeeding(name string, q1 float64, id1 string, q2 float64, id2 string) error {
	c.recipes = append(c.recipes, recipedomain.Recipe{
		PizzaName: name,
		BaseIngredients: []recipedomain.Ingredient{
			{IngredientID: id1, Quantity: q1},
			{IngredientID: id2, Quantity: q2},
		},
	})
	return nil
}

func (c *engineTestContext) ingredientWithStock(id string, stock float64) error {
	for i := range c.ingredients {
		if c.ingredients[i].ID == id {
			c.ingredients[i].Stock = stock
			return nil
		}
	}
	c.ingredients = append(c.ingredients, ingredientdomain.Ingredient{ID: id, Name: id, Stock: stock, Unit: "kg"})
	return nil
}

func (c *engineTestContext) aMachineWithHours(kind string, used, max float64) error {
	machineType := machinedomain.TypeOven
	if kind == "mixer" {
		machineType = machinedomain.TypeMixer
	}
	c.machines = append(c.machines, machinedomain.Machine{
		ID:        kind,
		Name:      kind,
		Type:      machineType,
		Status:    machinedomain.StatusOperational,
		HoursUsed: used,
		MaxHours:  max,
	})
	return nil
}

func (c *engineTestContext) ensureEngine() error {
	if c.engine != nil {
		return nil
	}
	c.store = jsonstore.New(afero.NewMemMapFs(), "/data")
	ctx := context.Background()
	if err := jsonstore.NewCollection[recipedomain.Recipe](c.store, datastore.RecipesFile).Update(ctx, replaceWith(c.recipes)); err != nil {
		return err
	}
	if err := jsonstore.NewCollection[ingredientdomain.Ingredient](c.store, datastore.IngredientsFile).Update(ctx, replaceWith(c.ingredients)); err != nil {
		return err
	}
	if err := jsonstore.NewCollection[machinedomain.Machine](c.store, datastore.MachinesFile).Update(ctx, replaceWith(c.machines)); err != nil {
		return err
	}
	c.engine = New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(testNow),
		Ingredients: ingredientrepo.Provide(c.store),
		Machines:    machinerepo.Provide(c.store),
		Recipes:     reciperepo.Provide(c.store),
	})
	return nil
}

func replaceWith[T any](items []T) func([]T) ([]T, error) {
	return func([]T) ([]T, error) { return items, nil }
}

func (c *engineTestContext) order(items ...stockdomain.Item) error {
	if err := c.ensureEngine(); err != nil {
		return err
	}
	out, err := c.engine.ApplyOrder(context.Background(), "feature", items)
	c.outcome = out
	return err
}

func (c *engineTestContext) iOrder(qty int, size, name string) error {
	return c.order(stockdomain.Item{Type: stockdomain.ItemTypePizza, Name: name, Quantity: qty, Size: size})
}

func (c *engineTestContext) iOrderWithFlavors(qty int, size, a, b string) error {
	return c.order(stockdomain.Item{
		Type:     stockdomain.ItemTypePizza,
		Name:     a + " / " + b,
		Quantity: qty,
		Size:     size,
		Flavors:  []string{a, b},
	})
}

func (c *engineTestContext) ingredientHasStock(id string, want float64) error {
	items, err := jsonstore.NewCollection[ingredientdomain.Ingredient](c.store, datastore.IngredientsFile).Load(context.Background())
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == id {
			if math.Abs(item.Stock-want) > featureTolerance {
				return fmt.Errorf("ingredient %s stock = %v, want %v", id, item.Stock, want)
			}
			return nil
		}
	}
	return fmt.Errorf("ingredient %s not found", id)
}

func (c *engineTestContext) machine(kind string) (*machinedomain.Machine, error) {
	items, err := jsonstore.NewCollection[machinedomain.Machine](c.store, datastore.MachinesFile).Load(context.Background())
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == kind {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("machine %s not found", kind)
}

func (c *engineTestContext) machineHasHours(kind string, want float64) error {
	m, err := c.machine(kind)
	if err != nil {
		return err
	}
	if math.Abs(m.HoursUsed-want) > featureTolerance {
		return fmt.Errorf("%s hoursUsed = %v, want %v", kind, m.HoursUsed, want)
	}
	return nil
}

func (c *engineTestContext) machineHasStatus(kind, want string) error {
	m, err := c.machine(kind)
	if err != nil {
		return err
	}
	if string(m.Status) != want {
		return fmt.Errorf("%s status = %s, want %s", kind, m.Status, want)
	}
	return nil
}

func (c *engineTestContext) outcomeSkipped(name string) error {
	if c.outcome == nil {
		return fmt.Errorf("no outcome recorded")
	}
	for _, skipped := range c.outcome.SkippedFlavors {
		if skipped == name {
			return nil
		}
	}
	return fmt.Errorf("outcome skipped %v, want %s", c.outcome.SkippedFlavors, name)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &engineTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a recipe "([^"]*)" needing ([\d.]+) of "([^"]*)" and ([\d.]+) of "([^"]*)"$`,
		func(name, q1, id1, q2, id2 string) error {
			a, err := parseFloat(q1)
			if err != nil {
				return err
			}
			b, err := parseFloat(q2)
			if err != nil {
				return err
			}
			return tc.aRecipeNeeding(name, a, id1, b, id2)
		})
	ctx.Step(`^ingredient "([^"]*)" with stock ([\d.]+)$`, func(id, stock string) error {
		v, err := parseFloat(stock)
		if err != nil {
			return err
		}
		return tc.ingredientWithStock(id, v)
	})
	ctx.Step(`^an? (oven|mixer) with ([\d.]+) of ([\d.]+) hours used$`, func(kind, used, max string) error {
		u, err := parseFloat(used)
		if err != nil {
			return err
		}
		m, err := parseFloat(max)
		if err != nil {
			return err
		}
		return tc.aMachineWithHours(kind, u, m)
	})

	// When steps
	ctx.Step(`^I order (\d+) "([^"]*)" "([^"]*)"$`, tc.iOrder)
	ctx.Step(`^I order (\d+) "([^"]*)" pizza with flavors "([^"]*)" and "([^"]*)"$`, tc.iOrderWithFlavors)

	// Then steps
	ctx.Step(`^ingredient "([^"]*)" has stock ([\d.]+)$`, func(id, want string) error {
		v, err := parseFloat(want)
		if err != nil {
			return err
		}
		return tc.ingredientHasStock(id, v)
	})
	ctx.Step(`^the (oven|mixer) has ([\d.]+) hours used$`, func(kind, want string) error {
		v, err := parseFloat(want)
		if err != nil {
			return err
		}
		return tc.machineHasHours(kind, v)
	})
	ctx.Step(`^the (oven|mixer) status is "([^"]*)"$`, tc.machineHasStatus)
	ctx.Step(`^the outcome skipped "([^"]*)"$`, tc.outcomeSkipped)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
