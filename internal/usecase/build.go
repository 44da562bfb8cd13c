package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/adapters/cli"
	"github.com/3-lines-studio/reactpack/internal/adapters/configfile"
	"github.com/3-lines-studio/reactpack/internal/core"
	"github.com/3-lines-studio/reactpack/internal/defaults"
	"github.com/3-lines-studio/reactpack/internal/metrics"
)

type BuildInput struct {
	SourceIn string
	DestOut  string
	// Options are the effective options of the invocation.
	Options core.BuildOptions
	// Props are the options as the caller passed them. Failure results
	// echo them back.
	Props core.BuildOptions
}

// Result is one failed invocation. A successful Compile returns no results.
type Result struct {
	Options core.BuildOptions
	Err     error
}

type BuildService struct {
	newBundler BundlerFactory
	fs         FileSystem
	embedded   FileSystem
	cli        CLIOutput
	logger     zerolog.Logger
}

// NewBuildService wires the build pipeline. embedded serves the built-in
// template.
func NewBuildService(newBundler BundlerFactory, fs FileSystem, embedded FileSystem, cli CLIOutput, logger zerolog.Logger) *BuildService {
	return &BuildService{
		newBundler: newBundler,
		fs:         fs,
		embedded:   embedded,
		cli:        cli,
		logger:     logger,
	}
}

type runOutcome struct {
	stats *core.Stats
	err   error
}

// Compile runs one invocation: setup, bundling and template generation.
func (s *BuildService) Compile(ctx context.Context, input BuildInput) []Result {
	start := time.Now()
	opts := input.Options
	report := cli.NewBuildReport(s.cli, input.DestOut)
	report.SetEntryCount(len(opts.Entry))
	defer report.Render()

	fail := func(err error) []Result {
		s.recordFailure(report, start, err)
		return []Result{{Options: input.Props, Err: err}}
	}

	stepSetup := report.StartStep("Preparing bundler")
	bundler, err := s.setup(input)
	if err != nil {
		report.EndStep(stepSetup, false, err.Error())
		return fail(err)
	}
	report.EndStep(stepSetup, true, "")

	defer func() {
		if err := bundler.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close bundler")
		}
	}()

	stepBundle := report.StartStep("Bundling")
	done := make(chan runOutcome, 1)
	go func() {
		stats, err := bundler.Run(ctx)
		done <- runOutcome{stats: stats, err: err}
	}()
	outcome := <-done
	if outcome.err != nil {
		report.EndStep(stepBundle, false, outcome.err.Error())
		s.logger.Error().
			Err(outcome.err).
			Strs("details", core.DetailsOf(outcome.err)).
			Msg("bundler run failed")
		return fail(outcome.err)
	}
	report.EndStep(stepBundle, true, "")

	stats := outcome.stats
	if stats == nil {
		stats = &core.Stats{}
	}
	for _, w := range stats.Warnings {
		s.logger.Warn().Str("warning", w).Msg("bundler warning")
	}
	if len(stats.Warnings) > 0 {
		report.AddWarning("bundle", "Bundler reported warnings", stats.Warnings)
	}
	for _, f := range stats.Files {
		report.AddFile(f)
	}

	written := 0
	if opts.Template.Requested() {
		stepTemplates := report.StartStep("Writing templates")
		paths, err := s.writeTemplates(input, stats)
		if err != nil {
			report.EndStep(stepTemplates, false, err.Error())
			return fail(err)
		}
		report.EndStep(stepTemplates, true, "")
		for _, p := range paths {
			report.AddFile(p)
		}
		written = len(paths)
	}

	metrics.BuildSucceeded(start, len(stats.Files), written)
	s.logger.Info().
		Str("hash", stats.Hash).
		Int("entries", len(stats.Entrypoints)).
		Int("assets", stats.AssetCount()).
		Int("templates", written).
		Dur("duration", time.Since(start)).
		Msg("build complete")
	return nil
}

func (s *BuildService) recordFailure(report *cli.BuildReport, start time.Time, err error) {
	kind := "unknown"
	var be *core.BuildError
	if errors.As(err, &be) {
		kind = string(be.Kind)
		report.AddError(be.Entry, err.Error(), be.Details)
	} else {
		report.AddError("", err.Error(), nil)
	}
	metrics.BuildFailure(start, kind)
}

// setup validates the options, composes the configuration and creates the
// bundler. Every error is a configuration or setup error.
func (s *BuildService) setup(input BuildInput) (Bundler, error) {
	opts := input.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	base, err := defaults.BaseConfig()
	if err != nil {
		return nil, core.SetupError("load base configuration", err)
	}

	project, err := s.loadProjectConfig(input.SourceIn, opts.Config)
	if err != nil {
		return nil, err
	}

	cfg, err := core.Compose(base, project, opts, core.Dirs{SourceIn: input.SourceIn, DestOut: input.DestOut})
	if err != nil {
		return nil, err
	}

	bundler, err := s.newBundler(cfg)
	if err != nil {
		return nil, core.SetupError("create bundler", err)
	}
	return bundler, nil
}

// loadProjectConfig reads the override file. A file that does not exist is
// skipped.
func (s *BuildService) loadProjectConfig(sourceIn, name string) (map[string]any, error) {
	if name == "" {
		return nil, nil
	}
	path := filepath.Join(sourceIn, name)
	if !s.fs.FileExists(path) {
		s.logger.Debug().Str("path", path).Msg("project configuration not found, skipping")
		return nil, nil
	}

	bs, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, core.ConfigError("load project configuration", fmt.Errorf("failed to read %s: %w", path, err))
	}
	return configfile.ParseOverride(path, bs)
}

func (s *BuildService) readTemplate(sourceIn string, spec core.TemplateSpec) (string, error) {
	if spec.Path == "" {
		bs, err := s.embedded.ReadFile(defaults.TemplateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read default template: %w", err)
		}
		return string(bs), nil
	}

	path := spec.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(sourceIn, path)
	}
	bs, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return string(bs), nil
}

// writeTemplates renders one HTML file per entry point, in entry name order.
func (s *BuildService) writeTemplates(input BuildInput, stats *core.Stats) ([]string, error) {
	entrypoints := stats.SortedEntrypoints()
	if len(entrypoints) == 0 {
		return nil, nil
	}

	template, err := s.readTemplate(input.SourceIn, input.Options.Template)
	if err != nil {
		return nil, core.TemplateError(entrypoints[0].Name, err)
	}

	basedir := input.Options.ResolveBasedir(input.DestOut)
	paths := make([]string, 0, len(entrypoints))
	for _, ep := range entrypoints {
		html := core.RenderTemplate(ep, template, stats.Hash)
		if html == "" {
			return paths, core.TemplateError(ep.Name, errors.New("template produced no output"))
		}

		path := core.HTMLPathForEntry(basedir, ep.Name)
		if err := s.fs.WriteFile(path, []byte(html), 0o644); err != nil {
			return paths, core.TemplateError(ep.Name, fmt.Errorf("failed to write %s: %w", path, err))
		}
		s.logger.Debug().Str("entry", ep.Name).Str("path", path).Msg("template written")
		paths = append(paths, path)
	}
	return paths, nil
}
