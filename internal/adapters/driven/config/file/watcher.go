package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// PromptWatcher clears a PromptStore's cache whenever a prompt file in its
// directory is created, written, removed or renamed.
type PromptWatcher struct {
	store *PromptStore
}

// NewPromptWatcher creates a watcher for the store's prompt directory.
func NewPromptWatcher(store *PromptStore) *PromptWatcher {
	return &PromptWatcher{store: store}
}

// Watch starts watching the prompt directory until ctx is cancelled.
// Each reload sends the affected prompt name on the returned channel, which
// is closed when watching stops. Sends never block; a slow reader misses
// notifications but never a reload.
func (w *PromptWatcher) Watch(ctx context.Context) (<-chan string, error) {
	dir := w.store.Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	reloaded := make(chan string, 8)
	go func() {
		defer close(reloaded)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				name, changed := w.handleEvent(event)
				if !changed {
					continue
				}
				w.store.Reload()
				logger.Info("prompt %q changed, reloaded", name)
				select {
				case reloaded <- name:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()

	return reloaded, nil
}

// handleEvent reports which prompt an event touches, if any.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) (string, bool) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".txt" {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}
