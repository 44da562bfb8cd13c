package esbuild

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/reactpack/internal/core"
)

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

func parseTarget(s string) (api.Target, error) {
	if s == "" {
		return api.DefaultTarget, nil
	}
	t, ok := targets[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unsupported target %q", s)
	}
	return t, nil
}

func parseDevtool(d core.Devtool, mode core.Mode) (api.SourceMap, error) {
	switch d {
	case "":
		if mode == core.ModeDevelopment {
			return api.SourceMapLinked, nil
		}
		return api.SourceMapNone, nil
	case core.DevtoolNone, "none":
		return api.SourceMapNone, nil
	case "source-map":
		return api.SourceMapLinked, nil
	case "hidden-source-map":
		return api.SourceMapExternal, nil
	case "inline-source-map", "eval-source-map", "eval-cheap-module-source-map", "cheap-module-source-map":
		return api.SourceMapInline, nil
	}
	return api.SourceMapNone, fmt.Errorf("unsupported devtool %q", d)
}

var filenameHash = regexp.MustCompile(`\[(?:contenthash|chunkhash|fullhash|hash)(?::\d+)?\]`)

// entryNames converts an output filename pattern ("[name].[contenthash].js")
// into an esbuild entry names template ("[name].[hash]").
func entryNames(filename string) string {
	if filename == "" {
		return "[name]"
	}
	out := filenameHash.ReplaceAllLiteralString(filepath.ToSlash(filename), "[hash]")
	return strings.TrimSuffix(out, ".js")
}

// assetLoaders are applied to files no rule claims.
var assetLoaders = map[string]api.Loader{
	".png":   api.LoaderFile,
	".jpg":   api.LoaderFile,
	".jpeg":  api.LoaderFile,
	".gif":   api.LoaderFile,
	".webp":  api.LoaderFile,
	".avif":  api.LoaderFile,
	".svg":   api.LoaderFile,
	".ico":   api.LoaderFile,
	".woff":  api.LoaderFile,
	".woff2": api.LoaderFile,
	".ttf":   api.LoaderFile,
	".eot":   api.LoaderFile,
}

type entryPoint struct {
	Name  string
	Input string // absolute
}

type layout struct {
	WorkingDir string
	Outdir     string
	Entries    []entryPoint
}

// resolveLayout makes the working directory, output directory and entry
// inputs absolute.
func resolveLayout(cfg *core.Config) (layout, error) {
	wd, err := filepath.Abs(cfg.Context)
	if err != nil {
		return layout{}, fmt.Errorf("failed to resolve context %q: %w", cfg.Context, err)
	}

	outdir := cfg.Output.Path
	if outdir == "" {
		return layout{}, fmt.Errorf("missing output path")
	}
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(wd, outdir)
	}

	l := layout{WorkingDir: wd, Outdir: filepath.Clean(outdir)}
	seen := make(map[string]string, len(cfg.Entry))
	for _, name := range cfg.Entry.Names() {
		input := cfg.Entry[name]
		if !filepath.IsAbs(input) {
			input = filepath.Join(wd, input)
		}
		input = filepath.Clean(input)
		if other, ok := seen[input]; ok {
			return layout{}, fmt.Errorf("entries %q and %q share the module %s", other, name, input)
		}
		seen[input] = name
		l.Entries = append(l.Entries, entryPoint{Name: name, Input: input})
	}
	return l, nil
}

func nodeEnvDefine(mode core.Mode) string {
	bs, _ := json.Marshal(string(mode))
	return string(bs)
}

// mapBuildOptions translates the composed configuration into esbuild build
// options. Plugins and rule handling are added by the caller.
func mapBuildOptions(cfg *core.Config, l layout) (api.BuildOptions, error) {
	target, err := parseTarget(cfg.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}
	sourcemap, err := parseDevtool(cfg.Devtool, cfg.Mode)
	if err != nil {
		return api.BuildOptions{}, err
	}

	define := map[string]string{"process.env.NODE_ENV": nodeEnvDefine(cfg.Mode)}
	maps.Copy(define, cfg.Define)

	entries := make([]api.EntryPoint, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, api.EntryPoint{InputPath: e.Input, OutputPath: e.Name})
	}

	production := cfg.Mode == core.ModeProduction

	opts := api.BuildOptions{
		EntryPointsAdvanced: entries,
		AbsWorkingDir:       l.WorkingDir,
		Outdir:              l.Outdir,
		EntryNames:          entryNames(cfg.Output.Filename),
		AssetNames:          "[name]-[hash]",
		PublicPath:          cfg.Output.PublicPath,
		Bundle:              true,
		Write:               false,
		Metafile:            true,
		Format:              api.FormatIIFE,
		Platform:            api.PlatformBrowser,
		Target:              target,
		Sourcemap:           sourcemap,
		MinifyWhitespace:    production,
		MinifyIdentifiers:   production,
		MinifySyntax:        production,
		Define:              define,
		External:            cfg.Externals,
		Alias:               cfg.Resolve.Alias,
		Loader:              maps.Clone(assetLoaders),
		LogLevel:            api.LogLevelSilent,
		Color:               api.ColorNever,
	}
	return opts, nil
}
