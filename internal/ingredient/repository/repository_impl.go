package repository

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

type repo struct {
	col *jsonstore.Collection[ingredientdomain.Ingredient]
}

func Provide(store *jsonstore.Store) ingredientdomain.Repository {
	return &repo{col: jsonstore.NewCollection[ingredientdomain.Ingredient](store, datastore.IngredientsFile)}
}

func (r *repo) List(ctx context.Context) ([]ingredientdomain.Ingredient, error) {
	return r.col.Load(ctx)
}

func (r *repo) Begin(ctx context.Context) (ingredientdomain.Batch, error) {
	return r.col.Begin(ctx)
}
