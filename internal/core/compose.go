package core

import (
	"errors"
	"fmt"
)

// Step and plugin names understood by the bundler adapter.
const (
	LoaderEsbuild       = "esbuild"
	LoaderReactCompiler = "react-compiler"
	LoaderCSS           = "css"
	LoaderCSSExtract    = "css-extract"
	LoaderStyle         = "style"

	PluginCSSExtract = "css-extract"
	PluginDefine     = "define"
	PluginBanner     = "banner"
)

// CSSRuleTest matches the stylesheets routed through extraction in
// production builds.
const CSSRuleTest = `\.css$`

var ErrMissingEntry = errors.New("missing entry point")

// Dirs are the source and destination roots of one invocation.
type Dirs struct {
	SourceIn string
	DestOut  string
}

// Compose layers base, the project override and the overlay derived from
// opts, then applies the production additions and compiler options.
// project may be nil.
func Compose(base, project map[string]any, opts BuildOptions, dirs Dirs) (*Config, error) {
	layers := []map[string]any{base}
	if project != nil {
		layers = append(layers, project)
	}
	layers = append(layers, Overlay(opts, dirs))

	merged := DeepMerge(layers, WithReplace(opts.Replace...))

	cfg, err := DecodeConfig(merged)
	if err != nil {
		return nil, ConfigError("decode configuration", err)
	}

	switch cfg.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		return nil, ConfigError("validate configuration", fmt.Errorf("unsupported mode %q", cfg.Mode))
	}

	if cfg.Mode == ModeProduction {
		cfg.Plugins = append(cfg.Plugins, Plugin{Name: PluginCSSExtract})
		cfg.Module.Rules = append(cfg.Module.Rules, Rule{
			Test: CSSRuleTest,
			Use:  []UseStep{{Loader: LoaderCSSExtract}, {Loader: LoaderCSS}},
		})
	}

	if len(cfg.Entry) == 0 {
		return nil, ConfigError("validate configuration", ErrMissingEntry)
	}

	if opts.CompilerOptions != nil {
		if err := injectCompilerOptions(cfg, opts.CompilerOptions); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Overlay is the per invocation layer merged last.
func Overlay(opts BuildOptions, dirs Dirs) map[string]any {
	output := DeepMerge([]map[string]any{{"path": dirs.DestOut}, opts.Output})

	overlay := map[string]any{
		"context": dirs.SourceIn,
		"mode":    string(opts.Mode.OrDefault()),
		"output":  output,
	}
	if len(opts.Entry) > 0 {
		overlay["entry"] = opts.Entry.toMap()
	}
	return overlay
}

func injectCompilerOptions(cfg *Config, raw map[string]any) error {
	normalized, err := NormalizeCompilerOptions(raw)
	if err != nil {
		return err
	}

	if len(cfg.Module.Rules) == 0 {
		return ConfigError("inject compiler options", errors.New("no source rule to receive compiler options"))
	}
	rule := &cfg.Module.Rules[0]
	if len(rule.Use) < 2 {
		return ConfigError("inject compiler options",
			fmt.Errorf("source rule %q has %d step(s), compiler options need a second step", rule.Test, len(rule.Use)))
	}

	rule.Use[1].Options = normalized.Map()
	return nil
}
