// Package templates holds the project scaffolds written by reactpack init.
package templates

import (
	"embed"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:starter
var starterFS embed.FS

const DefaultTemplate = "starter"

var ErrInvalidTemplate = errors.New("invalid template name")

func GetTemplate(name string) (fs.FS, error) {
	switch name {
	case "", DefaultTemplate:
		return fs.Sub(starterFS, "starter")
	default:
		return nil, ErrInvalidTemplate
	}
}

type TemplateData struct {
	Name string
}

// ProcessFilename strips the .tmpl suffix and reports whether the file needs
// placeholder substitution.
func ProcessFilename(filename string) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data TemplateData) []byte {
	if !isTemplate {
		return content
	}
	return []byte(strings.ReplaceAll(string(content), "{{.Name}}", data.Name))
}

func DeriveName(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "my-app"
	}
	return base
}
