package usecase

import (
	"context"
	"io"

	"github.com/3-lines-studio/reactpack/internal/adapters/fs"
	"github.com/3-lines-studio/reactpack/internal/adapters/watch"
	"github.com/3-lines-studio/reactpack/internal/core"
)

// Bundler is one prepared bundler instance. Close is called exactly once
// after the run phase, whatever its outcome.
type Bundler interface {
	Run(ctx context.Context) (*core.Stats, error)
	Close() error
}

// BundlerFactory creates a bundler for a composed configuration. Errors are
// reported as setup failures.
type BundlerFactory func(cfg *core.Config) (Bundler, error)

type Watcher interface {
	Run(ctx context.Context, onChange watch.ChangeFunc) error
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)

	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Out() io.Writer
	Err() io.Writer
}

type FileSystem = fs.FileSystem
