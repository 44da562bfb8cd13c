package esbuild

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// Source is a module's contents as it moves through a rule's steps. Loader
// is the zero value, api.LoaderNone, until a step decides how esbuild should
// parse it.
type Source struct {
	Contents string
	Loader   api.Loader
}

type StepInput struct {
	Path    string
	Mode    core.Mode
	Options map[string]any
	Source  Source
}

// Step transforms one module. Steps of a rule run from last to first.
type Step func(ctx context.Context, in StepInput) (Source, error)

// SourceTransformer rewrites module source outside of esbuild, such as the
// React compiler runtime.
type SourceTransformer interface {
	Transform(ctx context.Context, filename, code string, options map[string]any) (string, error)
}

var extLoaders = map[string]api.Loader{
	".js":  api.LoaderJS,
	".mjs": api.LoaderJS,
	".cjs": api.LoaderJS,
	".jsx": api.LoaderJSX,
	".ts":  api.LoaderTS,
	".mts": api.LoaderTS,
	".cts": api.LoaderTS,
	".tsx": api.LoaderTSX,
	".css": api.LoaderCSS,
}

var namedLoaders = map[string]api.Loader{
	"js":   api.LoaderJS,
	"jsx":  api.LoaderJSX,
	"ts":   api.LoaderTS,
	"tsx":  api.LoaderTSX,
	"css":  api.LoaderCSS,
	"json": api.LoaderJSON,
	"text": api.LoaderText,
}

func isModuleCSS(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".module.css")
}

func loaderForPath(path string) api.Loader {
	if isModuleCSS(path) {
		return api.LoaderLocalCSS
	}
	if l, ok := extLoaders[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return api.LoaderDefault
}

// loaderUnset reports whether no step has chosen a loader yet.
func loaderUnset(l api.Loader) bool {
	return l == api.LoaderNone || l == api.LoaderDefault
}

func isCSSLoader(l api.Loader) bool {
	return l == api.LoaderCSS || l == api.LoaderLocalCSS || l == api.LoaderGlobalCSS
}

func stringOption(options map[string]any, key string) (string, error) {
	v, ok := options[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q must be a string, got %T", key, v)
	}
	return s, nil
}

func parseJSX(s string) (api.JSX, error) {
	switch s {
	case "", "automatic":
		return api.JSXAutomatic, nil
	case "transform", "classic":
		return api.JSXTransform, nil
	case "preserve":
		return api.JSXPreserve, nil
	}
	return 0, fmt.Errorf("unsupported jsx mode %q", s)
}

// esbuildStep compiles JSX and TypeScript with esbuild's transform API.
func esbuildStep(_ context.Context, in StepInput) (Source, error) {
	loaderName, err := stringOption(in.Options, "loader")
	if err != nil {
		return Source{}, err
	}
	loader := in.Source.Loader
	if loaderName != "" {
		l, ok := namedLoaders[loaderName]
		if !ok {
			return Source{}, fmt.Errorf("unsupported loader %q", loaderName)
		}
		loader = l
	}
	if loaderUnset(loader) {
		loader = loaderForPath(in.Path)
	}

	targetName, err := stringOption(in.Options, "target")
	if err != nil {
		return Source{}, err
	}
	target, err := parseTarget(targetName)
	if err != nil {
		return Source{}, err
	}

	jsxName, err := stringOption(in.Options, "jsx")
	if err != nil {
		return Source{}, err
	}
	jsx, err := parseJSX(jsxName)
	if err != nil {
		return Source{}, err
	}

	importSource, err := stringOption(in.Options, "jsxImportSource")
	if err != nil {
		return Source{}, err
	}

	opts := api.TransformOptions{
		Loader:          loader,
		Target:          target,
		JSX:             jsx,
		JSXImportSource: importSource,
		JSXDev:          jsx == api.JSXAutomatic && in.Mode == core.ModeDevelopment,
		Sourcefile:      in.Path,
		LogLevel:        api.LogLevelSilent,
	}
	if in.Mode == core.ModeDevelopment {
		opts.Sourcemap = api.SourceMapInline
	}

	result := api.Transform(in.Source.Contents, opts)
	if len(result.Errors) > 0 {
		return Source{}, &messagesError{messages: result.Errors}
	}

	out := api.LoaderJS
	if isCSSLoader(loader) {
		out = loader
	}
	return Source{Contents: string(result.Code), Loader: out}, nil
}

func reactCompilerStep(compiler SourceTransformer) Step {
	return func(ctx context.Context, in StepInput) (Source, error) {
		if compiler == nil {
			return Source{}, fmt.Errorf("react compiler is not configured")
		}
		code, err := compiler.Transform(ctx, in.Path, in.Source.Contents, in.Options)
		if err != nil {
			return Source{}, err
		}
		return Source{Contents: code, Loader: in.Source.Loader}, nil
	}
}

// cssStep hands stylesheets to esbuild's CSS loader. *.module.css files get
// locally scoped class names.
func cssStep(_ context.Context, in StepInput) (Source, error) {
	loader := api.LoaderCSS
	if isModuleCSS(in.Path) {
		loader = api.LoaderLocalCSS
	}
	return Source{Contents: in.Source.Contents, Loader: loader}, nil
}

// cssExtractStep keeps a stylesheet as CSS so esbuild emits it in the entry
// point's CSS bundle.
func cssExtractStep(_ context.Context, in StepInput) (Source, error) {
	if !isCSSLoader(in.Source.Loader) {
		return Source{}, fmt.Errorf("css-extract expects CSS input, run the css step first")
	}
	return in.Source, nil
}

const styleModuleTemplate = `const __file = %s;
let s = document.querySelector('style[data-file="' + __file + '"]');
if (!s) { s = document.createElement('style'); s.dataset.file = __file; document.head.appendChild(s); }
s.textContent = %s;
`

// styleStep wraps CSS in a module that injects it into a <style> tag at
// runtime.
func styleStep(_ context.Context, in StepInput) (Source, error) {
	file, err := json.Marshal(filepath.Base(in.Path))
	if err != nil {
		return Source{}, err
	}
	css, err := json.Marshal(in.Source.Contents)
	if err != nil {
		return Source{}, err
	}
	return Source{
		Contents: fmt.Sprintf(styleModuleTemplate, file, css),
		Loader:   api.LoaderJS,
	}, nil
}

func builtinSteps(compiler SourceTransformer) map[string]Step {
	return map[string]Step{
		core.LoaderEsbuild:       esbuildStep,
		core.LoaderReactCompiler: reactCompilerStep(compiler),
		core.LoaderCSS:           cssStep,
		core.LoaderCSSExtract:    cssExtractStep,
		core.LoaderStyle:         styleStep,
	}
}
