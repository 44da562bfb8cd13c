package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/core"
)

func TestSkipDir(t *testing.T) {
	tests := map[string]bool{
		"node_modules": true,
		".git":         true,
		".":            false,
		"src":          false,
		"components":   false,
	}
	for name, want := range tests {
		if got := skipDir(name); got != want {
			t.Errorf("skipDir(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcherReportsIncludedChanges(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src", "node_modules/react"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	include, err := core.CompilePatterns(core.DefaultInclude)
	if err != nil {
		t.Fatal(err)
	}
	w := New(root, include, zerolog.Nop())
	w.SetDebounce(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)

	write := func(name string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("src/index.jsx")
	write("src/app.css")
	write("src/notes.txt")
	write("node_modules/react/index.js")

	select {
	case got := <-batches:
		if diff := cmp.Diff([]string{"src/app.css", "src/index.jsx"}, got); diff != "" {
			t.Errorf("changed mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for changes")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
