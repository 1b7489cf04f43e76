package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Ingredient, error)
	Begin(ctx context.Context) (Batch, error)
}

// Batch holds the ingredient collection's writer lock until Close.
type Batch interface {
	Items() []Ingredient
	Commit(ctx context.Context, items []Ingredient) error
	Close()
}
