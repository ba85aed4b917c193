/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package yamlstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceWindow is how long Watch waits for further events before it
// checks the file.
var DebounceWindow = 100 * time.Millisecond

// Watch reports edits to the gang file made by other processes. Writes made
// through this Store are not reported. The channel is closed when ctx is
// done.
//
// The directory is watched rather than the file, since editors and Save
// replace the file by renaming over it.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	out := make(chan struct{}, 1)
	go s.watchLoop(ctx, w, out)
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(DebounceWindow)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			timer.Reset(DebounceWindow)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if !s.changedExternally() {
				continue
			}
			s.logger.Info("gang file changed on disk")
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
