package embeddings

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/graph"
)

// DefaultDebounce is how long Watch waits after the last change before
// reloading.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives freshly loaded spaces for the networks whose files
// changed.
type ReloadFunc func(spaces map[graph.NetworkKind]*Space)

// Watch monitors dir for changes to the network embedding files and calls
// reload with the re-read spaces. Changes are batched until no event arrived
// for debounce. Files that fail to parse are logged and skipped.
// Blocks until the context is cancelled.
func Watch(ctx context.Context, dir string, debounce time.Duration, log zerolog.Logger, reload ReloadFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	changed := make(map[graph.NetworkKind]bool)
	batchTimer := time.NewTimer(debounce)
	batchTimer.Stop()

	log.Info().Str("dir", dir).Msg("watching embeddings")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			kind, ok := kindForFile(event.Name)
			if !ok {
				continue
			}
			changed[kind] = true
			batchTimer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-batchTimer.C:
			if len(changed) == 0 {
				continue
			}
			spaces := make(map[graph.NetworkKind]*Space, len(changed))
			for kind := range changed {
				s, err := ReadFile(filepath.Join(dir, FileName(kind)))
				if err != nil {
					log.Warn().Err(err).Str("network", string(kind)).Msg("reloading embeddings")
					continue
				}
				spaces[kind] = s
			}
			changed = make(map[graph.NetworkKind]bool)
			if len(spaces) > 0 {
				log.Info().Int("networks", len(spaces)).Msg("embeddings reloaded")
				reload(spaces)
			}
		}
	}
}

// kindForFile maps an embedding file path to its network.
func kindForFile(path string) (graph.NetworkKind, bool) {
	base := filepath.Base(path)
	for _, kind := range graph.NetworkKinds {
		if base == FileName(kind) {
			return kind, true
		}
	}
	return "", false
}
