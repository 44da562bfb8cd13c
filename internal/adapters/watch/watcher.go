// Package watch reports batches of changed source files.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/core"
)

const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc receives the changed paths, relative to the watched root, in
// sorted order.
type ChangeFunc func(ctx context.Context, changed []string)

type Watcher struct {
	root     string
	include  *core.PatternSet
	debounce time.Duration
	logger   zerolog.Logger
}

func New(root string, include *core.PatternSet, logger zerolog.Logger) *Watcher {
	return &Watcher{
		root:     root,
		include:  include,
		debounce: DefaultDebounce,
		logger:   logger.With().Str("component", "watch").Logger(),
	}
}

// SetDebounce changes how long the watcher waits for further changes before
// reporting a batch.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// skipDir reports directories that are never watched.
func skipDir(name string) bool {
	return name == "node_modules" || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// Run watches the root until ctx is done. onChange runs on the watching
// goroutine, so batches never overlap.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.logger.Info().Str("root", w.root).Strs("include", w.include.Patterns()).Msg("watching for changes")

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.handle(fw, event)
			if !ok {
				continue
			}
			w.logger.Debug().Str("file", rel).Str("op", event.Op.String()).Msg("file changed")
			pending[rel] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			slices.Sort(changed)
			clear(pending)
			onChange(ctx, changed)
		}
	}
}

// handle starts watching new directories and returns the relative path of
// an included file change.
func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch directory")
			}
			return "", false
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if skipDir(part) {
			return "", false
		}
	}
	if !w.include.Match(rel) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
