package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch watches the dictionary file for changes and reloads it.
// delay is a time to wait after the last change before reloading to avoid multiple reloads
func (c *CensorFilter) watch(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	done := make(chan bool)
	reloadTimer := time.NewTimer(delay)
	reloadPending := false

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[INFO] stopping dictionary watcher: %v", ctx.Err())
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
				if !reloadPending {
					reloadPending = true
					reloadTimer.Reset(delay)
				}
			case <-reloadTimer.C:
				if reloadPending {
					reloadPending = false
					if err := c.ReloadDictionary(); err != nil {
						log.Printf("[WARN] %v", err)
					}
				}
			case e, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] watcher error: %v", e)
			}
		}
	}()

	if _, err := os.Stat(c.params.DictionaryFile); err != nil {
		return fmt.Errorf("failed to stat file %q: %w", c.params.DictionaryFile, err)
	}
	log.Printf("[DEBUG] add file %q to watcher", c.params.DictionaryFile)
	if err := watcher.Add(c.params.DictionaryFile); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", c.params.DictionaryFile, err)
	}

	<-done
	return nil
}
