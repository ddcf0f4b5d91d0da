package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itestutil "github.com/leapstack-labs/sollint/internal/testutil"
)

func newWatcher(t *testing.T) *fsnotify.Watcher {
	t.Helper()
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts", "lib"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "dep"), 0o755))

	w := newWatcher(t)
	require.NoError(t, watchPath(w, dir))

	watched := w.WatchList()
	assert.ElementsMatch(t, []string{
		dir,
		filepath.Join(dir, "contracts"),
		filepath.Join(dir, "contracts", "lib"),
	}, watched)
}

func TestWatchPath_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Vault.sol")
	require.NoError(t, os.WriteFile(file, []byte("contract V {}"), 0o600))

	w := newWatcher(t)
	require.NoError(t, watchPath(w, file))
	assert.Equal(t, []string{dir}, w.WatchList())
}

func TestWatchPath_Missing(t *testing.T) {
	err := watchPath(newWatcher(t), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)
	require.NoError(t, watchPath(w, dir))

	changes := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		relevant := func(p string) bool { return strings.HasSuffix(p, ".sol") }
		done <- watchLoop(ctx, w, relevant, 100*time.Millisecond, itestutil.NewTestLogger(t), func() {
			changes <- struct{}{}
		})
	}()

	// Irrelevant files do not trigger a run.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	// A burst of writes collapses into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Vault.sol"), []byte(strings.Repeat("x", i+1)), 0o600))
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no run after writing a source file")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop on cancel")
	}
	assert.LessOrEqual(t, len(changes), 1, "writes within the debounce window share a run")
}

func TestWatchLoop_RemoveAndRename(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, file string)
	}{
		{name: "remove", change: func(t *testing.T, file string) {
			require.NoError(t, os.Remove(file))
		}},
		{name: "rename", change: func(t *testing.T, file string) {
			require.NoError(t, os.Rename(file, file+".bak"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "Vault.sol")
			require.NoError(t, os.WriteFile(file, []byte("contract V {}"), 0o600))

			w := newWatcher(t)
			require.NoError(t, watchPath(w, dir))

			changes := make(chan struct{}, 10)
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			defer func() {
				cancel()
				<-done
			}()
			go func() {
				relevant := func(p string) bool { return strings.HasSuffix(p, ".sol") }
				done <- watchLoop(ctx, w, relevant, 100*time.Millisecond, itestutil.NewTestLogger(t), func() {
					changes <- struct{}{}
				})
			}()

			tt.change(t, file)

			select {
			case <-changes:
			case <-time.After(5 * time.Second):
				t.Fatalf("no run after %s of a source file", tt.name)
			}
		})
	}
}
