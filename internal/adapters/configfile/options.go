package configfile

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// DefaultOptionsFile is looked up in the working directory by the CLI.
const DefaultOptionsFile = "reactpack.yaml"

// Options is the CLI options file.
type Options struct {
	Source      string            `json:"source,omitempty"`
	Dest        string            `json:"dest,omitempty"`
	Include     []string          `json:"include,omitempty" validate:"omitempty,dive,required"`
	Clean       []string          `json:"clean,omitempty" validate:"omitempty,dive,required"`
	MetricsFile string            `json:"metricsFile,omitempty"`
	Build       core.BuildOptions `json:"options"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func ParseOptions(bs []byte) (*Options, error) {
	var opts Options
	if err := yaml.UnmarshalWithOptions(bs, &opts, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &opts, nil
}

// LoadOptions reads the options file at filename. A missing file yields
// empty options when optional is set.
func LoadOptions(filename string, optional bool) (*Options, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return &Options{}, nil
		}
		return nil, fmt.Errorf("failed to read options file %s: %w", filename, err)
	}

	opts, err := ParseOptions(bs)
	if err != nil {
		return nil, core.ConfigError("load options file "+filename, err)
	}
	return opts, nil
}
