package core

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	schemareflector "github.com/swaggest/jsonschema-go"
)

// Config is the composed bundler configuration.
type Config struct {
	Context   string            `json:"context,omitempty"`
	Mode      Mode              `json:"mode,omitempty" enum:"production,development"`
	Entry     EntrySpec         `json:"entry,omitempty"`
	Output    Output            `json:"output,omitzero"`
	Module    Module            `json:"module,omitzero"`
	Plugins   []Plugin          `json:"plugins,omitempty"`
	Devtool   Devtool           `json:"devtool,omitempty"`
	Target    string            `json:"target,omitempty"`
	Externals []string          `json:"externals,omitempty"`
	Resolve   Resolve           `json:"resolve,omitzero"`
	Define    map[string]string `json:"define,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

type Output struct {
	Path       string `json:"path,omitempty"`
	Filename   string `json:"filename,omitempty"`
	PublicPath string `json:"publicPath,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

type Module struct {
	Rules []Rule `json:"rules,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// Rule routes files whose path matches Test, and not Exclude, through Use.
// Steps run from last to first.
type Rule struct {
	Test    string    `json:"test"`
	Exclude string    `json:"exclude,omitempty"`
	Use     []UseStep `json:"use,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// UseStep names a transform step. "esbuild" is shorthand for {loader: esbuild}.
type UseStep struct {
	Loader  string         `json:"loader"`
	Options map[string]any `json:"options,omitempty"`
}

func (UseStep) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.AddType(schemareflector.String)
	return nil
}

type Plugin struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

func (Plugin) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.AddType(schemareflector.String)
	return nil
}

type Resolve struct {
	Alias map[string]string `json:"alias,omitempty"`
}

// Devtool selects source map output: "source-map", "inline-source-map" or
// "false". YAML booleans are accepted.
type Devtool string

const DevtoolNone Devtool = "false"

func (Devtool) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.Type = nil
	schema.AddType(schemareflector.String)
	schema.AddType(schemareflector.Boolean)
	return nil
}

func (c *Config) HasPlugin(name string) bool {
	for _, p := range c.Plugins {
		if p.Name == name {
			return true
		}
	}
	return false
}

// DecodeConfig converts a merged configuration map into a Config.
func DecodeConfig(m map[string]any) (*Config, error) {
	var cfg Config
	if err := decode(m, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

func decode(input any, output any) error {
	config := &mapstructure.DecoderConfig{
		TagName: "json",
		Result:  output,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			entrySpecHook,
			namedStepHook,
			devtoolHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

var (
	entrySpecType = reflect.TypeFor[EntrySpec]()
	useStepType   = reflect.TypeFor[UseStep]()
	pluginType    = reflect.TypeFor[Plugin]()
	devtoolType   = reflect.TypeFor[Devtool]()
)

func entrySpecHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != entrySpecType {
		return data, nil
	}
	spec, err := ParseEntry(data)
	if err != nil {
		return nil, err
	}
	return map[string]string(spec), nil
}

func namedStepHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case useStepType:
		return map[string]any{"loader": data}, nil
	case pluginType:
		return map[string]any{"name": data}, nil
	}
	return data, nil
}

func devtoolHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != devtoolType || from.Kind() != reflect.Bool {
		return data, nil
	}
	return strconv.FormatBool(data.(bool)), nil
}
