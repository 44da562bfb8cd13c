package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

type WatchService struct {
	build   *BuildService
	watcher Watcher
	cli     CLIOutput
	logger  zerolog.Logger
}

func NewWatchService(build *BuildService, watcher Watcher, cli CLIOutput, logger zerolog.Logger) *WatchService {
	return &WatchService{build: build, watcher: watcher, cli: cli, logger: logger}
}

// Watch compiles once and again after every batch of changes until ctx is
// done. onResults receives the outcome of each compile.
func (s *WatchService) Watch(ctx context.Context, input BuildInput, onResults func([]Result)) error {
	if onResults == nil {
		onResults = func([]Result) {}
	}

	onResults(s.build.Compile(ctx, input))

	err := s.watcher.Run(ctx, func(ctx context.Context, changed []string) {
		s.cli.PrintStep("Rebuilding after changes to %s", strings.Join(changed, ", "))
		s.logger.Info().Strs("changed", changed).Msg("rebuilding")
		onResults(s.build.Compile(ctx, input))
	})
	s.cli.PrintDone("Stopped watching")
	return err
}
