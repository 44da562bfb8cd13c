package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/templates"
)

type InitInput struct {
	ProjectDir string
	Template   string
	Name       string
}

type InitOutput struct {
	Success bool
	Files   []string
	Error   error
}

type InitService struct {
	fs     FileSystem
	cli    CLIOutput
	logger zerolog.Logger
}

func NewInitService(fs FileSystem, cli CLIOutput, logger zerolog.Logger) *InitService {
	return &InitService{
		fs:     fs,
		cli:    cli,
		logger: logger,
	}
}

// InitProject writes a starter project into an empty or missing directory.
func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("reactpack init")

	entries, err := s.fs.ReadDir(input.ProjectDir)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
	case err != nil:
		return InitOutput{Error: fmt.Errorf("failed to read directory: %w", err)}
	case len(entries) > 0:
		return InitOutput{Error: fmt.Errorf("directory %s is not empty", input.ProjectDir)}
	}

	tfs, err := templates.GetTemplate(input.Template)
	if err != nil {
		return InitOutput{Error: fmt.Errorf("failed to load template %q: %w", input.Template, err)}
	}

	name := input.Name
	if name == "" {
		name = templates.DeriveName(input.ProjectDir)
	}
	data := templates.TemplateData{Name: name}

	var written []string
	err = iofs.WalkDir(tfs, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := iofs.ReadFile(tfs, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		target, isTemplate := templates.ProcessFilename(path)
		dest := filepath.Join(input.ProjectDir, filepath.FromSlash(target))
		if err := s.fs.WriteFile(dest, templates.ProcessContent(content, isTemplate, data), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		written = append(written, dest)
		return nil
	})
	if err != nil {
		return InitOutput{Files: written, Error: err}
	}

	for _, path := range written {
		s.cli.PrintFile(path)
	}
	s.logger.Info().Str("dir", input.ProjectDir).Str("name", name).Int("files", len(written)).Msg("project initialized")
	s.cli.PrintSuccess("Project initialized")
	return InitOutput{Success: true, Files: written}
}
