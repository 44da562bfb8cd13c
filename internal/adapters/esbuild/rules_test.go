package esbuild

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/go-cmp/cmp"

	"github.com/3-lines-studio/reactpack/internal/adapters/process"
	"github.com/3-lines-studio/reactpack/internal/core"
)

func recordingStep(name string, order *[]string) Step {
	return func(_ context.Context, in StepInput) (Source, error) {
		*order = append(*order, name)
		return Source{Contents: in.Source.Contents + "|" + name, Loader: in.Source.Loader}, nil
	}
}

func TestCompileRulesErrors(t *testing.T) {
	steps := builtinSteps(nil)
	tests := []struct {
		name    string
		rules   []core.Rule
		extract bool
		wantMsg string
	}{
		{"bad test", []core.Rule{{Test: "("}}, false, "invalid test pattern"},
		{"bad exclude", []core.Rule{{Test: "x", Exclude: "["}}, false, "invalid exclude pattern"},
		{"unknown loader", []core.Rule{{Test: "x", Use: []core.UseStep{{Loader: "babel"}}}}, false, `unknown loader "babel"`},
		{"extract without plugin", []core.Rule{{Test: "x", Use: []core.UseStep{{Loader: "css-extract"}, {Loader: "css"}}}}, false, "requires the css-extract plugin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileRules(tt.rules, steps, tt.extract)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("compileRules() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}

	if _, err := compileRules([]core.Rule{{Test: "x", Use: []core.UseStep{{Loader: "css-extract"}}}}, steps, true); err != nil {
		t.Errorf("compileRules() with plugin error = %v", err)
	}
}

func TestRulesPluginApply(t *testing.T) {
	var order []string
	steps := map[string]Step{
		"first":  recordingStep("first", &order),
		"second": recordingStep("second", &order),
		"third":  recordingStep("third", &order),
	}
	rules, err := compileRules([]core.Rule{
		{Test: `\.jsx$`, Exclude: "node_modules", Use: []core.UseStep{{Loader: "first"}, {Loader: "second"}, {Loader: "third"}}},
		{Test: `\.jsx$`, Use: []core.UseStep{{Loader: "second"}}},
	}, steps, false)
	if err != nil {
		t.Fatalf("compileRules() error = %v", err)
	}

	files := map[string]string{
		"/app/index.jsx":                  "src",
		"/app/node_modules/lib/index.jsx": "dep",
	}
	p := &rulesPlugin{
		rules: rules,
		read: func(path string) ([]byte, error) {
			return []byte(files[path]), nil
		},
		ctx: context.Background,
	}

	res, err := p.onLoad(api.OnLoadArgs{Path: "/app/index.jsx"})
	if err != nil {
		t.Fatalf("onLoad() error = %v", err)
	}
	if res.Contents == nil || *res.Contents != "src|third|second|first" {
		t.Errorf("Contents = %v, want steps applied last to first", res.Contents)
	}
	if res.Loader != api.LoaderJSX {
		t.Errorf("Loader = %v, want inferred JSX", res.Loader)
	}
	if res.ResolveDir != "/app" {
		t.Errorf("ResolveDir = %q, want /app", res.ResolveDir)
	}
	if diff := cmp.Diff([]string{"third", "second", "first"}, order); diff != "" {
		t.Errorf("step order mismatch (-want +got):\n%s", diff)
	}

	res, err = p.onLoad(api.OnLoadArgs{Path: "/app/node_modules/lib/index.jsx"})
	if err != nil {
		t.Fatalf("onLoad() error = %v", err)
	}
	if res.Contents == nil || *res.Contents != "dep|second" {
		t.Errorf("excluded file should fall through to the next rule, got %v", res.Contents)
	}

	res, err = p.onLoad(api.OnLoadArgs{Path: "/app/data.json"})
	if err != nil || res.Contents != nil {
		t.Errorf("unmatched file should be left to esbuild, got %+v, %v", res, err)
	}
}

func TestRulesPluginUnclaimedCSS(t *testing.T) {
	read := func(string) ([]byte, error) { return []byte("a{}"), nil }

	p := &rulesPlugin{read: read, ctx: context.Background}
	res, err := p.onLoad(api.OnLoadArgs{Path: "/app/reset.css"})
	if err != nil {
		t.Fatalf("onLoad() error = %v", err)
	}
	if res.Contents == nil || res.Loader != api.LoaderJS || !strings.Contains(*res.Contents, "document.createElement('style')") {
		t.Errorf("unclaimed css should be injected, got %+v", res)
	}

	p.extract = true
	res, err = p.onLoad(api.OnLoadArgs{Path: "/app/reset.css"})
	if err != nil || res.Contents != nil {
		t.Errorf("unclaimed css with extraction should be left to esbuild, got %+v, %v", res, err)
	}
}

func TestRulesPluginStepFailure(t *testing.T) {
	compileErr := &process.CompileError{Filename: "/app/App.jsx", Message: "hooks misuse", Line: 3, Column: 7, Stack: "at App"}
	rules, err := compileRules(
		[]core.Rule{{Test: `\.jsx$`, Use: []core.UseStep{{Loader: "react-compiler"}}}},
		builtinSteps(&fakeTransformer{err: compileErr}),
		false,
	)
	if err != nil {
		t.Fatalf("compileRules() error = %v", err)
	}
	p := &rulesPlugin{
		rules: rules,
		read:  func(string) ([]byte, error) { return []byte("x"), nil },
		ctx:   context.Background,
	}

	res, err := p.onLoad(api.OnLoadArgs{Path: "/app/App.jsx"})
	if err != nil {
		t.Fatalf("onLoad() error = %v", err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %v, want one message", res.Errors)
	}
	msg := res.Errors[0]
	if msg.Location == nil || msg.Location.Line != 3 || msg.Location.Column != 7 || msg.Location.File != "/app/App.jsx" {
		t.Errorf("Location = %+v, want /app/App.jsx:3:7", msg.Location)
	}
	if !strings.Contains(msg.Text, "react-compiler") || !strings.Contains(msg.Text, "hooks misuse") {
		t.Errorf("Text = %q", msg.Text)
	}
	if len(msg.Notes) != 1 || msg.Notes[0].Text != "at App" {
		t.Errorf("Notes = %v", msg.Notes)
	}
}

func TestRulesPluginReadError(t *testing.T) {
	rules, _ := compileRules([]core.Rule{{Test: `\.js$`}}, nil, false)
	p := &rulesPlugin{
		rules: rules,
		read:  func(string) ([]byte, error) { return nil, errors.New("denied") },
		ctx:   context.Background,
	}
	if _, err := p.onLoad(api.OnLoadArgs{Path: "/app/a.js"}); err == nil {
		t.Error("onLoad() expected read error")
	}
}
