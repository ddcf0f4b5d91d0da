package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sollint/internal/loader"
)

// watchDebounce collapses bursts of events, such as a parser rewriting many
// dumps, into one run.
const watchDebounce = 200 * time.Millisecond

func runWatch(cmd *cobra.Command, opts *LintOptions) error {
	cc := NewCommandContext(cmd, opts.Format)
	run, err := newLintRun(cc, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range run.paths {
		if err := watchPath(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	lintOnce := func() {
		results, err := run.lint(ctx)
		if err != nil {
			cc.Renderer.Error(err.Error())
			return
		}
		renderLintResults(cc.Renderer, results)
	}

	lintOnce()
	_, _ = fmt.Fprintln(cc.Renderer.ErrWriter(), "Watching for changes. Press Ctrl+C to stop.")

	return watchLoop(ctx, watcher, run.loader.IsInput, watchDebounce, cc.Logger, lintOnce)
}

// watchPath adds path to the watcher. Directories are added recursively;
// for a file its directory is watched.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && loader.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// watchLoop calls onChange once per burst of changes to relevant files until
// ctx is done. Deleting or renaming a source file counts as a change.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, relevant func(string) bool,
	delay time.Duration, logger *slog.Logger, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !relevant(event.Name) {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
