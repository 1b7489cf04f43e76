package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Collection is a typed view over one JSON array file.
type Collection[T any] struct {
	store *Store
	file  string
}

func NewCollection[T any](store *Store, file string) *Collection[T] {
	return &Collection[T]{store: store, file: file}
}

func (c *Collection[T]) File() string {
	return c.file
}

// Load reads the whole collection. A missing file yields an empty slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := c.store.fileLock(c.file)
	l.RLock()
	defer l.RUnlock()
	return readRaw[T](c.store, c.file)
}

// Begin takes the single-writer lock and returns the current items. The
// caller must Close the returned Tx.
func (c *Collection[T]) Begin(ctx context.Context) (*Tx[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := c.store.fileLock(c.file)
	l.Lock()

	tx := &Tx[T]{collection: c, local: l}
	if c.store.locker != nil {
		release, err := c.store.locker.Acquire(ctx, lockKey(c.store.dir, c.file))
		if err != nil {
			l.Unlock()
			if errors.Is(err, ErrLocked) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrLocked, c.file, err)
		}
		tx.release = release
	}

	items, err := readRaw[T](c.store, c.file)
	if err != nil {
		tx.Close()
		return nil, err
	}
	tx.items = items
	return tx, nil
}

// Update runs fn under the writer lock and persists its result. Returning
// ErrNoChange from fn skips the write.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	tx, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Close()

	next, err := fn(tx.Items())
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx, next)
}

// Tx holds a collection's writer lock between Begin and Close.
type Tx[T any] struct {
	collection *Collection[T]
	items      []T
	local      *sync.RWMutex
	release    func(context.Context) error
	closed     bool
}

// Items returns the collection as read when the lock was taken.
func (tx *Tx[T]) Items() []T {
	return tx.items
}

// Commit persists items. The lock stays held until Close.
func (tx *Tx[T]) Commit(ctx context.Context, items []T) error {
	if tx.closed {
		return fmt.Errorf("%w: %s: transaction closed", ErrPersistence, tx.collection.file)
	}
	if err := writeRaw(tx.collection.store, tx.collection.file, items); err != nil {
		return err
	}
	tx.items = items
	return nil
}

// Close releases the locks. It is safe to call more than once.
func (tx *Tx[T]) Close() {
	if tx == nil || tx.closed {
		return
	}
	tx.closed = true
	if tx.release != nil {
		if err := tx.release(context.Background()); err != nil {
			tx.collection.store.log.Warn("release collection lock failed",
				zap.String("collection", tx.collection.file),
				zap.Error(err),
			)
		}
	}
	tx.local.Unlock()
}

func lockKey(dir, file string) string {
	return "pizzaria:store:" + dir + ":" + file
}
