// Package jsonstore persists collections as pretty-printed JSON arrays on an
// afero filesystem. Writes copy the previous file aside, verify what was
// written and restore the copy when verification fails.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrPersistence = errors.New("persistence_failed")
	ErrLocked      = errors.New("collection_locked")
	ErrNoChange    = errors.New("no_change")
)

const backupSuffix = ".backup"

// Locker serialises writers across processes. The in-process mutex is
// always held as well.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// Store owns the data directory and the per-file writer locks.
type Store struct {
	fs     afero.Fs
	dir    string
	locker Locker
	log    *zap.Logger

	mu     sync.Mutex
	files  map[string]*sync.RWMutex
	writes map[string]time.Time
}

type Option func(*Store)

// WithLocker adds a cross-process lock taken after the in-process mutex.
func WithLocker(l Locker) Option {
	return func(s *Store) {
		s.locker = l
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func New(fs afero.Fs, dir string, opts ...Option) *Store {
	s := &Store{
		fs:    fs,
		dir:   dir,
		log:   zap.NewNop(),
		files:  make(map[string]*sync.RWMutex),
		writes: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Fs() afero.Fs {
	return s.fs
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute location of a collection file.
func (s *Store) Path(file string) string {
	return filepath.Join(s.dir, file)
}

func (s *Store) fileLock(file string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.files[file]
	if !ok {
		l = &sync.RWMutex{}
		s.files[file] = l
	}
	return l
}

// EnsureDir creates the data directory when it does not exist.
func (s *Store) EnsureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", ErrPersistence, err)
	}
	return nil
}

// Exists reports whether a collection file is present.
func (s *Store) Exists(file string) (bool, error) {
	return afero.Exists(s.fs, s.Path(file))
}

func (s *Store) markWrite(file string) {
	s.mu.Lock()
	s.writes[file] = time.Now()
	s.mu.Unlock()
}

// wroteRecently reports whether this process wrote file within window.
func (s *Store) wroteRecently(file string, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.writes[file]
	return ok && time.Since(at) < window
}

// readRaw returns the decoded array, creating the file with [] when missing.
func readRaw[T any](s *Store, file string) ([]T, error) {
	path := s.Path(file)
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.EnsureDir(); err != nil {
			return nil, err
		}
		if err := afero.WriteFile(s.fs, path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrPersistence, file, err)
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	items := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return items, nil
}

// writeRaw performs backup, write, verify and restore-on-failure.
func writeRaw[T any](s *Store, file string, items []T) error {
	if items == nil {
		items = []T{}
	}
	path := s.Path(file)
	backup := path + backupSuffix

	if err := s.EnsureDir(); err != nil {
		return err
	}

	hadPrevious, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrPersistence, file, err)
	}
	if hadPrevious {
		prev, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return fmt.Errorf("%w: read %s for backup: %v", ErrPersistence, file, err)
		}
		if err := afero.WriteFile(s.fs, backup, prev, 0o644); err != nil {
			return fmt.Errorf("%w: backup %s: %v", ErrPersistence, file, err)
		}
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, file, err)
	}

	s.markWrite(file)
	if err := afero.WriteFile(s.fs, path, payload, 0o644); err != nil {
		return s.restore(file, hadPrevious, fmt.Errorf("write %s: %v", file, err))
	}
	if err := verify(s.fs, path, len(items)); err != nil {
		return s.restore(file, hadPrevious, err)
	}
	return nil
}

func verify(fs afero.Fs, path string, want int) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("verify %s: %v", filepath.Base(path), err)
	}
	var written []json.RawMessage
	if err := json.Unmarshal(data, &written); err != nil {
		return fmt.Errorf("verify %s: not an array: %v", filepath.Base(path), err)
	}
	if len(written) != want {
		return fmt.Errorf("verify %s: wrote %d records, expected %d", filepath.Base(path), len(written), want)
	}
	return nil
}

func (s *Store) restore(file string, hadPrevious bool, cause error) error {
	path := s.Path(file)
	if hadPrevious {
		prev, err := afero.ReadFile(s.fs, path+backupSuffix)
		if err == nil {
			err = afero.WriteFile(s.fs, path, prev, 0o644)
		}
		if err != nil {
			s.log.Error("restore collection backup failed",
				zap.String("collection", file),
				zap.Error(err),
			)
		} else {
			s.log.Warn("collection restored from backup", zap.String("collection", file))
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, cause)
}
