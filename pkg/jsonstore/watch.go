package jsonstore

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ownWriteWindow hides events caused by this process's own writes.
const ownWriteWindow = time.Second

// Watch reports collection files rewritten by other processes until ctx is
// done. It only works on an OS-backed filesystem.
func (s *Store) Watch(ctx context.Context, onChange func(file string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				file, relevant := collectionEvent(ev)
				if !relevant || s.wroteRecently(file, ownWriteWindow) {
					continue
				}
				onChange(file)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("data dir watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func collectionEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	file := filepath.Base(ev.Name)
	if !strings.HasSuffix(file, ".json") {
		return "", false
	}
	return file, true
}
