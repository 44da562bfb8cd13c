package esbuild

import (
	"encoding/json"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// PluginFunc applies a configured plugin to the build options.
type PluginFunc func(opts *api.BuildOptions, options map[string]any) error

func builtinPlugins() map[string]PluginFunc {
	return map[string]PluginFunc{
		// css-extract is handled by the rules plugin; stylesheets imported
		// from an entry are emitted as its CSS bundle.
		core.PluginCSSExtract: func(*api.BuildOptions, map[string]any) error { return nil },
		core.PluginDefine:     definePlugin,
		core.PluginBanner:     bannerPlugin,
	}
}

// definePlugin adds its options to Define. Strings are used verbatim as
// expressions, other values are encoded as JSON literals.
func definePlugin(opts *api.BuildOptions, options map[string]any) error {
	if opts.Define == nil {
		opts.Define = map[string]string{}
	}
	for key, v := range options {
		if s, ok := v.(string); ok {
			opts.Define[key] = s
			continue
		}
		bs, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("define %q: %w", key, err)
		}
		opts.Define[key] = string(bs)
	}
	return nil
}

func bannerPlugin(opts *api.BuildOptions, options map[string]any) error {
	for _, kind := range []string{"js", "css"} {
		text, err := stringOption(options, kind)
		if err != nil {
			return fmt.Errorf("banner: %w", err)
		}
		if text == "" {
			continue
		}
		if opts.Banner == nil {
			opts.Banner = map[string]string{}
		}
		opts.Banner[kind] = text
	}
	return nil
}

func applyPlugins(opts *api.BuildOptions, plugins []core.Plugin, registry map[string]PluginFunc) error {
	for _, p := range plugins {
		fn, ok := registry[p.Name]
		if !ok {
			return fmt.Errorf("unknown plugin %q", p.Name)
		}
		if err := fn(opts, p.Options); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name, err)
		}
	}
	return nil
}
