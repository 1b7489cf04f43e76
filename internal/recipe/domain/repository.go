package domain

import "context"

// Repository reads recipes; the kitchen core never writes them.
type Repository interface {
	List(ctx context.Context) ([]Recipe, error)
}
