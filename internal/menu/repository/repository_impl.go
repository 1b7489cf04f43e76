package repository

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

type repo struct {
	pizzas      *jsonstore.Collection[menudomain.Pizza]
	complements *jsonstore.Collection[menudomain.Complement]
}

func Provide(store *jsonstore.Store) menudomain.Repository {
	return &repo{
		pizzas:      jsonstore.NewCollection[menudomain.Pizza](store, datastore.PizzasFile),
		complements: jsonstore.NewCollection[menudomain.Complement](store, datastore.ComplementsFile),
	}
}

func (r *repo) ListPizzas(ctx context.Context) ([]menudomain.Pizza, error) {
	return r.pizzas.Load(ctx)
}

func (r *repo) UpdatePizzas(ctx context.Context, fn func([]menudomain.Pizza) ([]menudomain.Pizza, error)) error {
	return r.pizzas.Update(ctx, fn)
}

func (r *repo) ListComplements(ctx context.Context) ([]menudomain.Complement, error) {
	return r.complements.Load(ctx)
}

func (r *repo) UpdateComplements(ctx context.Context, fn func([]menudomain.Complement) ([]menudomain.Complement, error)) error {
	return r.complements.Update(ctx, fn)
}
