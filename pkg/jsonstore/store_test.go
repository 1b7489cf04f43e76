package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string  `json:"id"`
	Stock float64 `json:"stock"`
}

func newTestStore(t *testing.T, opts ...Option) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(fs, "/data", opts...), fs
}

func TestLoadMissingFileCreatesEmptyArray(t *testing.T) {
	store, fs := newTestStore(t)
	col := NewCollection[record](store, "ingredients.json")

	items, err := col.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)

	data, err := afero.ReadFile(fs, "/data/ingredients.json")
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestUpdateWritesIndentedArrayAndBackup(t *testing.T) {
	store, fs := newTestStore(t)
	col := NewCollection[record](store, "ingredients.json")
	ctx := context.Background()

	require.NoError(t, col.Update(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: "mussarela", Stock: 30}), nil
	}))
	require.NoError(t, col.Update(ctx, func(items []record) ([]record, error) {
		items[0].Stock = 29
		return items, nil
	}))

	data, err := afero.ReadFile(fs, "/data/ingredients.json")
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  {\n    \"id\": \"mussarela\"")

	backup, err := afero.ReadFile(fs, "/data/ingredients.json.backup")
	require.NoError(t, err)
	var prev []record
	require.NoError(t, json.Unmarshal(backup, &prev))
	require.Equal(t, 30.0, prev[0].Stock)

	items, err := col.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 29.0, items[0].Stock)
}

func TestUpdateNoChangeSkipsWrite(t *testing.T) {
	store, fs := newTestStore(t)
	col := NewCollection[record](store, "machines.json")
	ctx := context.Background()

	require.NoError(t, col.Update(ctx, func(items []record) ([]record, error) {
		return nil, ErrNoChange
	}))
	exists, err := afero.Exists(fs, "/data/machines.json.backup")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUpdatePropagatesCallbackError(t *testing.T) {
	store, _ := newTestStore(t)
	col := NewCollection[record](store, "orders.json")
	boom := errors.New("boom")

	err := col.Update(context.Background(), func(items []record) ([]record, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

// truncatingFs corrupts the next write to target, once.
type truncatingFs struct {
	afero.Fs
	target string
	armed  bool
}

func (f *truncatingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil || !f.armed || name != f.target || flag&os.O_WRONLY == 0 {
		return file, err
	}
	f.armed = false
	return &truncatingFile{File: file}, nil
}

type truncatingFile struct {
	afero.File
}

func (f *truncatingFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := f.File.Write(p[:1]); err != nil {
		return 0, err
	}
	return len(p), nil
}

func TestFailedVerificationRestoresBackup(t *testing.T) {
	fs := &truncatingFs{Fs: afero.NewMemMapFs(), target: "/data/ingredients.json"}
	store := New(fs, "/data")
	col := NewCollection[record](store, "ingredients.json")
	ctx := context.Background()

	require.NoError(t, col.Update(ctx, func(items []record) ([]record, error) {
		return []record{{ID: "molho-tomate", Stock: 50}}, nil
	}))

	fs.armed = true
	err := col.Update(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: "mussarela", Stock: 30}), nil
	})
	require.ErrorIs(t, err, ErrPersistence)

	items, err := col.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "molho-tomate", items[0].ID)
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store, _ := newTestStore(t)
	col := NewCollection[record](store, "ingredients.json")
	ctx := context.Background()

	require.NoError(t, col.Update(ctx, func(items []record) ([]record, error) {
		return []record{{ID: "mussarela", Stock: 100}}, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = col.Update(ctx, func(items []record) ([]record, error) {
				items[0].Stock--
				return items, nil
			})
		}()
	}
	wg.Wait()

	items, err := col.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 80.0, items[0].Stock)
}

type stubLocker struct {
	err      error
	acquired []string
	released int
}

func (l *stubLocker) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func TestBeginUsesLockerAndReleasesOnClose(t *testing.T) {
	locker := &stubLocker{}
	store, _ := newTestStore(t, WithLocker(locker))
	col := NewCollection[record](store, "machines.json")

	tx, err := col.Begin(context.Background())
	require.NoError(t, err)
	tx.Close()
	tx.Close()

	require.Equal(t, []string{"pizzaria:store:/data:machines.json"}, locker.acquired)
	require.Equal(t, 1, locker.released)
}

func TestBeginWrapsLockerFailure(t *testing.T) {
	store, _ := newTestStore(t, WithLocker(&stubLocker{err: errors.New("redis down")}))
	col := NewCollection[record](store, "machines.json")

	_, err := col.Begin(context.Background())
	require.ErrorIs(t, err, ErrLocked)

	// the in-process lock must have been released
	_, err = col.Load(context.Background())
	require.NoError(t, err)
}
