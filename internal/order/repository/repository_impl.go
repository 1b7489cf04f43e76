package repository

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

type repo struct {
	col *jsonstore.Collection[orderdomain.Order]
}

func Provide(store *jsonstore.Store) orderdomain.Repository {
	return &repo{col: jsonstore.NewCollection[orderdomain.Order](store, datastore.OrdersFile)}
}

func (r *repo) List(ctx context.Context) ([]orderdomain.Order, error) {
	return r.col.Load(ctx)
}

func (r *repo) Update(ctx context.Context, fn func([]orderdomain.Order) ([]orderdomain.Order, error)) error {
	return r.col.Update(ctx, fn)
}
