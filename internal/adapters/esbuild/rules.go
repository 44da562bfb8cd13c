package esbuild

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/reactpack/internal/adapters/process"
	"github.com/3-lines-studio/reactpack/internal/core"
)

const rulesPluginName = "reactpack-rules"

type boundStep struct {
	name    string
	run     Step
	options map[string]any
}

type compiledRule struct {
	test    *regexp.Regexp
	exclude *regexp.Regexp
	steps   []boundStep
}

func (r compiledRule) matches(path string) bool {
	slashed := filepath.ToSlash(path)
	if !r.test.MatchString(slashed) {
		return false
	}
	return r.exclude == nil || !r.exclude.MatchString(slashed)
}

// compileRules resolves every rule's patterns and step names. Unknown steps
// and a css-extract step without the css-extract plugin are rejected.
func compileRules(rules []core.Rule, steps map[string]Step, extract bool) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		test, err := regexp.Compile(rule.Test)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid test pattern: %w", i, err)
		}
		cr := compiledRule{test: test}
		if rule.Exclude != "" {
			if cr.exclude, err = regexp.Compile(rule.Exclude); err != nil {
				return nil, fmt.Errorf("rule %d: invalid exclude pattern: %w", i, err)
			}
		}
		for _, use := range rule.Use {
			run, ok := steps[use.Loader]
			if !ok {
				return nil, fmt.Errorf("rule %d: unknown loader %q", i, use.Loader)
			}
			if use.Loader == core.LoaderCSSExtract && !extract {
				return nil, fmt.Errorf("rule %d: %s loader requires the %s plugin", i, core.LoaderCSSExtract, core.PluginCSSExtract)
			}
			cr.steps = append(cr.steps, boundStep{name: use.Loader, run: run, options: use.Options})
		}
		out = append(out, cr)
	}
	return out, nil
}

// rulesPlugin routes module loads through the configured rules. The first
// matching rule wins. Stylesheets no rule claims are injected with a <style>
// tag unless CSS is being extracted.
type rulesPlugin struct {
	rules   []compiledRule
	mode    core.Mode
	extract bool
	read    func(path string) ([]byte, error)
	ctx     func() context.Context
}

func (p *rulesPlugin) plugin() api.Plugin {
	return api.Plugin{
		Name: rulesPluginName,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: "file"}, p.onLoad)
		},
	}
}

func (p *rulesPlugin) match(path string) (compiledRule, bool) {
	for _, r := range p.rules {
		if r.matches(path) {
			return r, true
		}
	}
	return compiledRule{}, false
}

func (p *rulesPlugin) onLoad(args api.OnLoadArgs) (api.OnLoadResult, error) {
	rule, ok := p.match(args.Path)
	if !ok {
		if !p.extract && loaderForPath(args.Path) == api.LoaderCSS {
			rule = compiledRule{steps: []boundStep{{name: core.LoaderStyle, run: styleStep}}}
		} else {
			return api.OnLoadResult{}, nil
		}
	}

	bs, err := p.read(args.Path)
	if err != nil {
		return api.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", args.Path, err)
	}

	src, err := p.apply(rule, args.Path, Source{Contents: string(bs)})
	if err != nil {
		return stepFailure(args.Path, err), nil
	}
	if loaderUnset(src.Loader) {
		src.Loader = loaderForPath(args.Path)
	}

	return api.OnLoadResult{
		PluginName: rulesPluginName,
		Contents:   &src.Contents,
		Loader:     src.Loader,
		ResolveDir: filepath.Dir(args.Path),
	}, nil
}

// apply runs the rule's steps from last to first.
func (p *rulesPlugin) apply(rule compiledRule, path string, src Source) (Source, error) {
	ctx := p.ctx()
	for i := len(rule.steps) - 1; i >= 0; i-- {
		step := rule.steps[i]
		out, err := step.run(ctx, StepInput{
			Path:    path,
			Mode:    p.mode,
			Options: step.options,
			Source:  src,
		})
		if err != nil {
			return Source{}, &stepError{step: step.name, err: err}
		}
		src = out
	}
	return src, nil
}

type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return fmt.Sprintf("%s: %v", e.step, e.err) }
func (e *stepError) Unwrap() error { return e.err }

// stepFailure reports a failed step as esbuild messages so they are collected
// with the rest of the build errors.
func stepFailure(path string, err error) api.OnLoadResult {
	var msgs *messagesError
	if errors.As(err, &msgs) {
		return api.OnLoadResult{PluginName: rulesPluginName, Errors: msgs.messages}
	}

	msg := api.Message{Text: err.Error(), Location: &api.Location{File: path}}
	var cerr *process.CompileError
	if errors.As(err, &cerr) {
		msg.Location.Line = cerr.Line
		msg.Location.Column = cerr.Column
		if cerr.Stack != "" {
			msg.Notes = []api.Note{{Text: cerr.Stack}}
		}
	}
	return api.OnLoadResult{PluginName: rulesPluginName, Errors: []api.Message{msg}}
}
