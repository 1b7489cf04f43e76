package repository

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

type repo struct {
	col *jsonstore.Collection[recipedomain.Recipe]
}

func Provide(store *jsonstore.Store) recipedomain.Repository {
	return &repo{col: jsonstore.NewCollection[recipedomain.Recipe](store, datastore.RecipesFile)}
}

func (r *repo) List(ctx context.Context) ([]recipedomain.Recipe, error) {
	return r.col.Load(ctx)
}
