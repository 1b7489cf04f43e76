package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Recipe, error)
	Resolve(ctx context.Context, pizzaName string) (*Recipe, error)
	ResolveForPizza(ctx context.Context, pizzaID, pizzaName string) (*Recipe, error)
}

var ErrNotFound = errors.New("not_found")
