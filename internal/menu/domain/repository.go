package domain

import "context"

type Repository interface {
	ListPizzas(ctx context.Context) ([]Pizza, error)
	UpdatePizzas(ctx context.Context, fn func([]Pizza) ([]Pizza, error)) error
	ListComplements(ctx context.Context) ([]Complement, error)
	UpdateComplements(ctx context.Context, fn func([]Complement) ([]Complement, error)) error
}
