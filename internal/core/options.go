package core

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	schemareflector "github.com/swaggest/jsonschema-go"
)

type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

func (m Mode) OrDefault() Mode {
	if m == "" {
		return ModeProduction
	}
	return m
}

// EntrySpec maps entry point names to module paths.
type EntrySpec map[string]string

// ParseEntry accepts a single path, a list of paths or a name -> path mapping.
// Names for the path forms come from the file name.
func ParseEntry(v any) (EntrySpec, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case EntrySpec:
		return x, nil
	case map[string]string:
		return EntrySpec(x), nil
	case string:
		if x == "" {
			return nil, nil
		}
		return EntrySpec{EntryNameForPath(x): x}, nil
	case []string:
		return entriesFromPaths(x)
	case []any:
		paths := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry list items must be strings, got %T", item)
			}
			paths = append(paths, s)
		}
		return entriesFromPaths(paths)
	case map[string]any:
		spec := make(EntrySpec, len(x))
		for name, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %q must be a string path, got %T", name, item)
			}
			spec[name] = s
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("unsupported entry type %T", v)
	}
}

func entriesFromPaths(paths []string) (EntrySpec, error) {
	spec := make(EntrySpec, len(paths))
	for _, p := range paths {
		name := EntryNameForPath(p)
		if existing, ok := spec[name]; ok && existing != p {
			return nil, fmt.Errorf("entries %q and %q both resolve to the name %q", existing, p, name)
		}
		spec[name] = p
	}
	return spec, nil
}

func (e *EntrySpec) UnmarshalYAML(bs []byte) error {
	var raw any
	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode entry: %w", err)
	}
	spec, err := ParseEntry(raw)
	if err != nil {
		return err
	}
	*e = spec
	return nil
}

// Names returns the entry names in sorted order.
func (e EntrySpec) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e EntrySpec) toMap() map[string]any {
	m := make(map[string]any, len(e))
	for name, path := range e {
		m[name] = path
	}
	return m
}

func (EntrySpec) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.Type = nil
	schema.AddType(schemareflector.String)
	schema.AddType(schemareflector.Array)
	schema.AddType(schemareflector.Object)
	return nil
}

// TemplateSpec is either the built-in template (Default) or a path relative
// to the source root.
type TemplateSpec struct {
	Default bool
	Path    string
}

func (t TemplateSpec) Requested() bool {
	return t.Default || t.Path != ""
}

func (t *TemplateSpec) UnmarshalYAML(bs []byte) error {
	var raw any
	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode template: %w", err)
	}
	switch v := raw.(type) {
	case nil:
		*t = TemplateSpec{}
	case bool:
		*t = TemplateSpec{Default: v}
	case string:
		*t = ParseTemplateFlag(v)
	default:
		return fmt.Errorf("template must be a boolean or a path, got %T", raw)
	}
	return nil
}

// ParseTemplateFlag interprets command line values: "true" selects the
// built-in template, "false" or "" disables it, anything else is a path.
func ParseTemplateFlag(v string) TemplateSpec {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false":
		return TemplateSpec{}
	case "true":
		return TemplateSpec{Default: true}
	}
	return TemplateSpec{Path: v}
}

type BuildOptions struct {
	Config          string         `json:"config,omitempty"`
	Mode            Mode           `json:"mode,omitempty" validate:"omitempty,oneof=production development"`
	Entry           EntrySpec      `json:"entry,omitempty" validate:"omitempty,dive,required"`
	Output          map[string]any `json:"output,omitempty"`
	CompilerOptions map[string]any `json:"compilerOptions,omitempty"`
	Template        TemplateSpec   `json:"template,omitzero"`
	Basedir         string         `json:"basedir,omitempty"`
	Replace         []string       `json:"replace,omitempty" validate:"omitempty,dive,required"`
}

// With overlays props on top of o field by field. Set fields in props win.
func (o BuildOptions) With(props BuildOptions) BuildOptions {
	out := o
	if props.Config != "" {
		out.Config = props.Config
	}
	if props.Mode != "" {
		out.Mode = props.Mode
	}
	if props.Entry != nil {
		out.Entry = props.Entry
	}
	if props.Output != nil {
		out.Output = props.Output
	}
	if props.CompilerOptions != nil {
		out.CompilerOptions = props.CompilerOptions
	}
	if props.Template.Requested() {
		out.Template = props.Template
	}
	if props.Basedir != "" {
		out.Basedir = props.Basedir
	}
	if props.Replace != nil {
		out.Replace = props.Replace
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (o BuildOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return ConfigError("validate build options", err)
	}
	return nil
}

// ResolveBasedir returns the directory generated HTML is written to.
func (o BuildOptions) ResolveBasedir(destOut string) string {
	if o.Basedir == "" {
		return destOut
	}
	if filepath.IsAbs(o.Basedir) {
		return o.Basedir
	}
	return filepath.Join(destOut, o.Basedir)
}
