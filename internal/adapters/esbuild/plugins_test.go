package esbuild

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/go-cmp/cmp"

	"github.com/3-lines-studio/reactpack/internal/core"
)

func TestApplyPlugins(t *testing.T) {
	opts := api.BuildOptions{Define: map[string]string{"process.env.NODE_ENV": `"production"`}}
	err := applyPlugins(&opts, []core.Plugin{
		{Name: core.PluginCSSExtract},
		{Name: core.PluginDefine, Options: map[string]any{"__DEBUG__": false, "__API__": `"https://api"`, "__RETRIES__": 3}},
		{Name: core.PluginBanner, Options: map[string]any{"js": "/* reactpack */"}},
	}, builtinPlugins())
	if err != nil {
		t.Fatalf("applyPlugins() error = %v", err)
	}

	wantDefine := map[string]string{
		"process.env.NODE_ENV": `"production"`,
		"__DEBUG__":            "false",
		"__API__":              `"https://api"`,
		"__RETRIES__":          "3",
	}
	if diff := cmp.Diff(wantDefine, opts.Define); diff != "" {
		t.Errorf("Define mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"js": "/* reactpack */"}, opts.Banner); diff != "" {
		t.Errorf("Banner mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPluginsErrors(t *testing.T) {
	tests := []struct {
		name    string
		plugins []core.Plugin
	}{
		{"unknown", []core.Plugin{{Name: "html-webpack-plugin"}}},
		{"bad banner", []core.Plugin{{Name: core.PluginBanner, Options: map[string]any{"js": 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts api.BuildOptions
			if err := applyPlugins(&opts, tt.plugins, builtinPlugins()); err == nil {
				t.Error("applyPlugins() expected error")
			}
		})
	}
}
