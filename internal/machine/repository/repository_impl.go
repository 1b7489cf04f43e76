package repository

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

type repo struct {
	col *jsonstore.Collection[machinedomain.Machine]
}

func Provide(store *jsonstore.Store) machinedomain.Repository {
	return &repo{col: jsonstore.NewCollection[machinedomain.Machine](store, datastore.MachinesFile)}
}

func (r *repo) List(ctx context.Context) ([]machinedomain.Machine, error) {
	return r.col.Load(ctx)
}

func (r *repo) Begin(ctx context.Context) (machinedomain.Batch, error) {
	return r.col.Begin(ctx)
}
