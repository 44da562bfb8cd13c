// Package reactpack compiles React entry points with esbuild and writes an
// HTML file per entry point with the emitted assets injected.
package reactpack

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/adapters/cli"
	"github.com/3-lines-studio/reactpack/internal/adapters/esbuild"
	"github.com/3-lines-studio/reactpack/internal/adapters/fs"
	"github.com/3-lines-studio/reactpack/internal/adapters/process"
	"github.com/3-lines-studio/reactpack/internal/adapters/watch"
	"github.com/3-lines-studio/reactpack/internal/core"
	"github.com/3-lines-studio/reactpack/internal/defaults"
	"github.com/3-lines-studio/reactpack/internal/usecase"
)

type (
	BuildOptions = core.BuildOptions
	EntrySpec    = core.EntrySpec
	TemplateSpec = core.TemplateSpec
	Mode         = core.Mode
	Stats        = core.Stats
	Entrypoint   = core.Entrypoint
	Asset        = core.Asset
	Result       = usecase.Result
	BuildError   = core.BuildError
	Bundler      = usecase.Bundler
	Config       = core.Config
)

const (
	ModeProduction  = core.ModeProduction
	ModeDevelopment = core.ModeDevelopment
)

var (
	ErrConfig   = core.ErrConfig
	ErrSetup    = core.ErrSetup
	ErrRun      = core.ErrRun
	ErrTemplate = core.ErrTemplate
)

type Option func(*Compiler)

// WithOptions sets the default build options every Compile starts from.
func WithOptions(opts BuildOptions) Option {
	return func(c *Compiler) { c.options = opts }
}

// WithInclude sets the glob patterns of source files that trigger a rebuild
// in watch mode.
func WithInclude(patterns ...string) Option {
	return func(c *Compiler) { c.include = patterns }
}

// WithClean sets the glob patterns of files Clean removes from the
// destination.
func WithClean(patterns ...string) Option {
	return func(c *Compiler) { c.clean = patterns }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithOutput sends the human readable build report to out and errOut.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *Compiler) { c.output = cli.NewWriterOutput(out, errOut) }
}

// WithoutColors turns off colors in the build report.
func WithoutColors() Option {
	return func(c *Compiler) { c.noColor = true }
}

// WithBundler replaces the esbuild bundler.
func WithBundler(newBundler func(cfg *Config) (Bundler, error)) Option {
	return func(c *Compiler) { c.newBundler = newBundler }
}

// Compiler builds a source tree into a destination tree.
type Compiler struct {
	sourceIn string
	destOut  string
	options  BuildOptions
	include  []string
	clean    []string
	logger   zerolog.Logger
	output   *cli.Output
	noColor  bool

	fs         fs.FileSystem
	newBundler usecase.BundlerFactory

	includeSet *core.PatternSet
	cleanSet   *core.PatternSet

	build *usecase.BuildService

	mu            sync.Mutex
	reactCompiler *process.ReactCompiler
}

func New(sourceIn, destOut string, opts ...Option) (*Compiler, error) {
	c := &Compiler{
		sourceIn: sourceIn,
		destOut:  destOut,
		include:  core.DefaultInclude,
		clean:    core.DefaultClean,
		logger:   zerolog.Nop(),
		output:   cli.NewWriterOutput(io.Discard, io.Discard),
		fs:       fs.NewOSFileSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.noColor {
		c.output.DisableColors()
	}

	var err error
	if c.includeSet, err = core.CompilePatterns(c.include); err != nil {
		return nil, core.ConfigError("compile include patterns", err)
	}
	if c.cleanSet, err = core.CompilePatterns(c.clean); err != nil {
		return nil, core.ConfigError("compile clean patterns", err)
	}
	if err := c.options.Validate(); err != nil {
		return nil, err
	}

	if c.newBundler == nil {
		c.newBundler = c.esbuildBundler
	}
	c.build = usecase.NewBuildService(c.newBundler, c.fs, fs.NewEmbedFileSystem(defaults.FS), c.output, c.logger)
	return c, nil
}

// esbuildBundler shares one React compiler process between builds.
func (c *Compiler) esbuildBundler(cfg *core.Config) (usecase.Bundler, error) {
	c.mu.Lock()
	if c.reactCompiler == nil {
		c.reactCompiler = process.NewReactCompiler(process.CompilerOptions{Dir: c.sourceIn})
	}
	rc := c.reactCompiler
	c.mu.Unlock()

	b, err := esbuild.New(cfg,
		esbuild.WithFileSystem(c.fs),
		esbuild.WithLogger(c.logger),
		esbuild.WithCompiler(rc),
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Compile builds once. props override the compiler's default options field
// by field. It returns nil on success and otherwise one Result carrying props
// as given and the error.
func (c *Compiler) Compile(ctx context.Context, props BuildOptions) []Result {
	return c.build.Compile(ctx, c.input(props))
}

// Watch compiles, then recompiles whenever an included source file changes,
// until ctx is done.
func (c *Compiler) Watch(ctx context.Context, props BuildOptions, onResults func([]Result)) error {
	w := watch.New(c.sourceIn, c.includeSet, c.logger)
	svc := usecase.NewWatchService(c.build, w, c.output, c.logger)
	return svc.Watch(ctx, c.input(props), onResults)
}

// Clean removes files matching the clean patterns from the destination and
// returns their paths.
func (c *Compiler) Clean() ([]string, error) {
	return usecase.NewCleanService(c.fs, c.output, c.logger).Clean(c.destOut, c.cleanSet)
}

func (c *Compiler) Include() []string { return c.includeSet.Patterns() }

func (c *Compiler) CleanPatterns() []string { return c.cleanSet.Patterns() }

// Close stops the React compiler process if one was started.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reactCompiler == nil {
		return nil
	}
	if err := c.reactCompiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop react compiler: %w", err)
	}
	c.reactCompiler = nil
	return nil
}

func (c *Compiler) input(props BuildOptions) usecase.BuildInput {
	return usecase.BuildInput{
		SourceIn: c.sourceIn,
		DestOut:  c.destOut,
		Options:  c.options.With(props),
		Props:    props,
	}
}
