package core

import (
	"github.com/go-viper/mapstructure/v2"
)

// CompilerOptions are the React compiler settings injected into the source
// rule's second step.
type CompilerOptions struct {
	Target          string   `json:"target" mapstructure:"target" validate:"oneof=17 18 19"`
	CompilationMode string   `json:"compilationMode" mapstructure:"compilationMode" validate:"oneof=infer annotation syntax all"`
	PanicThreshold  string   `json:"panicThreshold" mapstructure:"panicThreshold" validate:"oneof=none critical_errors all_errors"`
	Sources         []string `json:"sources,omitempty" mapstructure:"sources" validate:"omitempty,dive,required"`
}

func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{
		Target:          "19",
		CompilationMode: "infer",
		PanicThreshold:  "none",
	}
}

// NormalizeCompilerOptions fills defaults, coerces numeric targets to strings
// and rejects unknown keys or values.
func NormalizeCompilerOptions(raw map[string]any) (CompilerOptions, error) {
	opts := DefaultCompilerOptions()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return CompilerOptions{}, ConfigError("normalize compiler options", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return CompilerOptions{}, ConfigError("normalize compiler options", err)
	}

	if err := validate.Struct(opts); err != nil {
		return CompilerOptions{}, ConfigError("normalize compiler options", err)
	}
	return opts, nil
}

// Map returns the options in the form stored in a rule step.
func (o CompilerOptions) Map() map[string]any {
	m := map[string]any{
		"target":          o.Target,
		"compilationMode": o.CompilationMode,
		"panicThreshold":  o.PanicThreshold,
	}
	if len(o.Sources) > 0 {
		sources := make([]any, len(o.Sources))
		for i, s := range o.Sources {
			sources[i] = s
		}
		m["sources"] = sources
	}
	return m
}
