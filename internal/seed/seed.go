package seed

import (
	"context"
	"time"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

// EnsureDataFiles creates the data directory and writes every collection
// file that does not exist yet. Existing files are never touched. It
// returns the names of the files it created.
func EnsureDataFiles(ctx context.Context, store *jsonstore.Store, catalog Catalog, now time.Time) ([]string, error) {
	if err := store.EnsureDir(); err != nil {
		return nil, err
	}

	ingredients := make([]ingredientdomain.Ingredient, len(catalog.Ingredients))
	for i, item := range catalog.Ingredients {
		if item.LastUpdated.IsZero() {
			item.LastUpdated = now.UTC()
		}
		ingredients[i] = item
	}

	steps := []struct {
		file  string
		write func() error
	}{
		{datastore.PizzasFile, func() error { return create(ctx, store, datastore.PizzasFile, catalog.Pizzas) }},
		{datastore.ComplementsFile, func() error { return create(ctx, store, datastore.ComplementsFile, catalog.Complements) }},
		{datastore.IngredientsFile, func() error { return create(ctx, store, datastore.IngredientsFile, ingredients) }},
		{datastore.MachinesFile, func() error { return create(ctx, store, datastore.MachinesFile, catalog.Machines) }},
		{datastore.RecipesFile, func() error { return create(ctx, store, datastore.RecipesFile, catalog.Recipes) }},
		{datastore.OrdersFile, func() error { return create(ctx, store, datastore.OrdersFile, []orderdomain.Order{}) }},
	}

	var created []string
	for _, step := range steps {
		exists, err := store.Exists(step.file)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if err := step.write(); err != nil {
			return created, err
		}
		created = append(created, step.file)
	}
	return created, nil
}

func create[T any](ctx context.Context, store *jsonstore.Store, file string, items []T) error {
	return jsonstore.NewCollection[T](store, file).Update(ctx, func([]T) ([]T, error) {
		return items, nil
	})
}
