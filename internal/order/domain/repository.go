package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, fn func([]Order) ([]Order, error)) error
}
