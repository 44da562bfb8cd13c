// Package esbuild runs composed configurations through esbuild's Go API.
package esbuild

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/adapters/fs"
	"github.com/3-lines-studio/reactpack/internal/adapters/process"
	"github.com/3-lines-studio/reactpack/internal/core"
)

type Option func(*Bundler)

func WithFileSystem(fsys fs.FileSystem) Option {
	return func(b *Bundler) { b.fs = fsys }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bundler) { b.logger = logger }
}

// WithStep registers or replaces a named rule step.
func WithStep(name string, step Step) Option {
	return func(b *Bundler) { b.steps[name] = step }
}

// WithPlugin registers or replaces a named plugin.
func WithPlugin(name string, fn PluginFunc) Option {
	return func(b *Bundler) { b.plugins[name] = fn }
}

// WithCompiler sets the transformer behind the react-compiler step. The
// caller owns it; Close does not stop it.
func WithCompiler(c SourceTransformer) Option {
	return func(b *Bundler) { b.compiler = c }
}

// Bundler is a prepared esbuild context for one configuration.
type Bundler struct {
	fs       fs.FileSystem
	logger   zerolog.Logger
	steps    map[string]Step
	plugins  map[string]PluginFunc
	compiler SourceTransformer
	owned    *process.ReactCompiler

	cfg    *core.Config
	layout layout
	ctx    api.BuildContext

	mu     sync.Mutex
	runCtx context.Context
	closed bool
}

// New performs the setup phase: it resolves every rule step and plugin and
// creates the esbuild context. Failures are setup errors.
func New(cfg *core.Config, opts ...Option) (*Bundler, error) {
	b := &Bundler{
		fs:      fs.NewOSFileSystem(),
		logger:  zerolog.Nop(),
		steps:   map[string]Step{},
		plugins: builtinPlugins(),
		cfg:     cfg,
		runCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.compiler == nil {
		b.owned = process.NewReactCompiler(process.CompilerOptions{Dir: cfg.Context})
		b.compiler = b.owned
	}
	for name, step := range builtinSteps(b.compiler) {
		if _, ok := b.steps[name]; !ok {
			b.steps[name] = step
		}
	}

	if err := b.setup(); err != nil {
		_ = b.stopCompiler()
		return nil, core.SetupError("create bundler", err)
	}
	return b, nil
}

func (b *Bundler) setup() error {
	l, err := resolveLayout(b.cfg)
	if err != nil {
		return err
	}
	b.layout = l

	buildOpts, err := mapBuildOptions(b.cfg, l)
	if err != nil {
		return err
	}
	if err := applyPlugins(&buildOpts, b.cfg.Plugins, b.plugins); err != nil {
		return err
	}

	extract := b.cfg.HasPlugin(core.PluginCSSExtract)
	rules, err := compileRules(b.cfg.Module.Rules, b.steps, extract)
	if err != nil {
		return err
	}
	rp := &rulesPlugin{
		rules:   rules,
		mode:    b.cfg.Mode,
		extract: extract,
		read:    b.fs.ReadFile,
		ctx:     b.currentContext,
	}
	buildOpts.Plugins = append(buildOpts.Plugins, rp.plugin())

	ctx, cerr := api.Context(buildOpts)
	if cerr != nil {
		return fmt.Errorf("failed to create esbuild context: %s", joinMessages(cerr.Errors))
	}
	b.ctx = ctx

	b.logger.Debug().
		Str("context", l.WorkingDir).
		Str("outdir", l.Outdir).
		Int("entries", len(l.Entries)).
		Int("rules", len(rules)).
		Msg("bundler ready")
	return nil
}

func joinMessages(msgs []api.Message) string {
	if len(msgs) == 0 {
		return "unknown error"
	}
	return (&messagesError{messages: msgs}).Error()
}

func (b *Bundler) currentContext() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runCtx
}

// Run builds once, writes the output files and returns the manifest.
func (b *Bundler) Run(ctx context.Context) (*core.Stats, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, core.RunError("bundle", errors.New("bundler is closed"), nil)
	}
	b.runCtx = ctx
	b.mu.Unlock()

	done := make(chan api.BuildResult, 1)
	go func() { done <- b.ctx.Rebuild() }()

	var result api.BuildResult
	select {
	case result = <-done:
	case <-ctx.Done():
		b.ctx.Cancel()
		<-done
		return nil, core.RunError("bundle", ctx.Err(), nil)
	}

	if len(result.Errors) > 0 {
		b.logger.Debug().Msg(prettyMessages(result.Errors, api.ErrorMessage))
		return nil, core.RunError("bundle",
			fmt.Errorf("build failed with %d error(s)", len(result.Errors)),
			formatMessages(result.Errors))
	}

	stats, err := b.emit(result)
	if err != nil {
		return nil, core.RunError("bundle", err, nil)
	}
	return stats, nil
}

func (b *Bundler) emit(result api.BuildResult) (*core.Stats, error) {
	files := make([]core.EmittedFile, 0, len(result.OutputFiles))
	names := make([]string, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		if err := b.fs.WriteFile(f.Path, f.Contents, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		rel, err := filepath.Rel(b.layout.Outdir, f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to relate %s to output directory: %w", f.Path, err)
		}
		rel = filepath.ToSlash(rel)
		files = append(files, core.EmittedFile{Path: rel, Contents: f.Contents})
		names = append(names, rel)
	}
	slices.Sort(names)

	entrypoints, err := parseStats(result.Metafile, b.layout)
	if err != nil {
		return nil, err
	}

	return &core.Stats{
		Hash:        core.BuildHash(files),
		Entrypoints: entrypoints,
		Warnings:    formatMessages(result.Warnings),
		Files:       names,
	}, nil
}

// Close releases the esbuild context and any compiler process this bundler
// started. It is safe to call more than once.
func (b *Bundler) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.ctx != nil {
		b.ctx.Dispose()
	}
	if err := b.stopCompiler(); err != nil {
		return fmt.Errorf("failed to stop react compiler: %w", err)
	}
	return nil
}

func (b *Bundler) stopCompiler() error {
	if b.owned == nil {
		return nil
	}
	return b.owned.Stop()
}
