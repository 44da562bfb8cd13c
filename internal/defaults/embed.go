// Package defaults holds the built-in base configuration and HTML template.
package defaults

import (
	"embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

const (
	BaseConfigFile = "base.yaml"
	TemplateFile   = "template.html"
)

//go:embed base.yaml template.html
var FS embed.FS

// BaseConfig returns a fresh copy of the base configuration layer.
func BaseConfig() (map[string]any, error) {
	bs, err := FS.ReadFile(BaseConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read base configuration: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return nil, fmt.Errorf("failed to parse base configuration: %w", err)
	}
	return m, nil
}
