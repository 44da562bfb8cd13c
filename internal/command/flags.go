package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/3-lines-studio/reactpack/internal/adapters/env"
	"github.com/3-lines-studio/reactpack/internal/core"
)

type modeFlag enumflag.Flag

const (
	modeAuto modeFlag = iota
	modeProduction
	modeDevelopment
)

var modeIDs = map[modeFlag][]string{
	modeAuto:        {"auto"},
	modeProduction:  {"production", "prod"},
	modeDevelopment: {"development", "dev"},
}

// resolve maps the flag to a build mode. auto defers to the options file,
// then NODE_ENV.
func (m modeFlag) resolve(fromFile core.Mode) core.Mode {
	switch m {
	case modeProduction:
		return core.ModeProduction
	case modeDevelopment:
		return core.ModeDevelopment
	}
	if fromFile != "" {
		return fromFile
	}
	return env.DetectMode()
}

// buildFlags are the per-invocation options shared by build and watch.
type buildFlags struct {
	mode     modeFlag
	entries  []string
	template string
	basedir  string
	config   string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Var(enumflag.New(&f.mode, "mode", modeIDs, enumflag.EnumCaseInsensitive),
		"mode", "build mode: auto|production|development")
	fl.StringSliceVarP(&f.entries, "entry", "e", nil, "entry point as path or name=path (repeatable)")
	fl.StringVar(&f.template, "template", "", "write HTML pages: true for the built-in template, or a template path")
	fl.StringVar(&f.basedir, "basedir", "", "directory for HTML pages, relative to the destination")
	fl.StringVarP(&f.config, "config", "c", "", "project configuration file, relative to the source root")
}

// options overlays the command line on the options file.
func (f *buildFlags) options(cmd *cobra.Command, fromFile core.BuildOptions) (core.BuildOptions, error) {
	props := core.BuildOptions{
		Config:  f.config,
		Mode:    f.mode.resolve(fromFile.Mode),
		Basedir: f.basedir,
	}
	if len(f.entries) > 0 {
		entry, err := parseEntryFlags(f.entries)
		if err != nil {
			return core.BuildOptions{}, core.ConfigError("parse --entry", err)
		}
		props.Entry = entry
	}

	opts := fromFile.With(props)
	if cmd.Flags().Changed("template") {
		opts.Template = core.ParseTemplateFlag(f.template)
	}
	return opts, nil
}

// parseEntryFlags accepts "path" and "name=path" values.
func parseEntryFlags(values []string) (core.EntrySpec, error) {
	var paths []string
	named := core.EntrySpec{}
	for _, v := range values {
		name, path, ok := strings.Cut(v, "=")
		if !ok {
			paths = append(paths, v)
			continue
		}
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid entry %q, want name=path", v)
		}
		named[name] = path
	}

	spec, err := core.ParseEntry(paths)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		spec = core.EntrySpec{}
	}
	for name, path := range named {
		if existing, ok := spec[name]; ok && existing != path {
			return nil, fmt.Errorf("entries %q and %q both use the name %q", existing, path, name)
		}
		spec[name] = path
	}
	return spec, nil
}
