package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Machine, error)
	Begin(ctx context.Context) (Batch, error)
}

// Batch holds the machine collection's writer lock until Close.
type Batch interface {
	Items() []Machine
	Commit(ctx context.Context, items []Machine) error
	Close()
}
