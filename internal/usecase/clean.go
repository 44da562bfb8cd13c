package usecase

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/core"
)

type CleanService struct {
	fs     FileSystem
	cli    CLIOutput
	logger zerolog.Logger
}

func NewCleanService(fs FileSystem, cli CLIOutput, logger zerolog.Logger) *CleanService {
	return &CleanService{fs: fs, cli: cli, logger: logger}
}

// Clean removes files under destOut matching patterns and returns their
// paths. A missing destination is not an error.
func (s *CleanService) Clean(destOut string, patterns *core.PatternSet) ([]string, error) {
	var removed []string
	err := s.fs.WalkDir(destOut, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == destOut && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(destOut, path)
		if err != nil {
			return err
		}
		if !patterns.Match(rel) {
			return nil
		}
		if err := s.fs.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to clean %s: %w", destOut, err)
	}

	for _, path := range removed {
		s.cli.PrintFile(path)
	}
	s.logger.Info().Str("dest", destOut).Int("removed", len(removed)).Strs("patterns", patterns.Patterns()).Msg("clean complete")
	return removed, nil
}
