// Package configfile reads the project override file and the CLI options
// file.
package configfile

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// ParseOverride decodes a project override file (YAML or JSON) and validates
// it against the configuration schema. name is only used in errors.
func ParseOverride(name string, bs []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return nil, overrideError(name, fmt.Errorf("failed to unmarshal: %w", err))
	}

	if raw == nil {
		return map[string]any{}, nil
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, overrideError(name, fmt.Errorf("top level must be a mapping, got %T", raw))
	}

	schema, err := rootSchema()
	if err != nil {
		return nil, core.SetupError("load configuration schema", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, overrideError(name, err)
	}

	return doc, nil
}

func overrideError(name string, err error) error {
	return &core.BuildError{
		Kind: core.KindConfig,
		Op:   "load project configuration",
		Path: name,
		Err:  err,
	}
}
