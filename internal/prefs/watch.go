package prefs

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// settleDelay coalesces the burst of events editors produce on save.
const settleDelay = 100 * time.Millisecond

// Watch calls onChange whenever the file's address is edited by something
// other than this store. It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(Prefs)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Watch(dir); err != nil {
		return err
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Event:
			if ev == nil || filepath.Clean(ev.Name) != s.path || ev.IsAttrib() {
				continue
			}
			settle = time.After(settleDelay)
		case err := <-watcher.Error:
			log.Printf("prefs: watcher: %v", err)
		case <-settle:
			settle = nil
			p, changed, err := s.reload()
			if err != nil {
				log.Printf("prefs: reload %s: %v", s.path, err)
				continue
			}
			if changed && onChange != nil {
				onChange(p)
			}
		}
	}
}
