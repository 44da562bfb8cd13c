package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/reactpack/internal/core"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
source: src
dest: dist
include: ["*.jsx", "*.css"]
clean: ["*.min.js"]
options:
  mode: development
  entry: ./index.jsx
  template: true
`))
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}

	if opts.Source != "src" || opts.Dest != "dist" {
		t.Errorf("Source/Dest = %q/%q", opts.Source, opts.Dest)
	}
	if len(opts.Include) != 2 {
		t.Errorf("Include = %v", opts.Include)
	}
	if opts.Build.Mode != core.ModeDevelopment {
		t.Errorf("Build.Mode = %q", opts.Build.Mode)
	}
	if opts.Build.Entry["index"] != "./index.jsx" {
		t.Errorf("Build.Entry = %v", opts.Build.Entry)
	}
	if !opts.Build.Template.Default {
		t.Errorf("Build.Template = %+v, want default", opts.Build.Template)
	}
}

func TestParseOptionsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown field": "sources: src\n",
		"bad mode":      "options:\n  mode: staging\n",
		"empty include": "include: [\"\"]\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseOptions([]byte(src)); err == nil {
				t.Errorf("ParseOptions(%q) error = nil", src)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()

	opts, err := LoadOptions(filepath.Join(dir, DefaultOptionsFile), true)
	if err != nil {
		t.Fatalf("LoadOptions(optional missing) error = %v", err)
	}
	if opts.Source != "" {
		t.Errorf("missing file produced options: %+v", opts)
	}

	if _, err := LoadOptions(filepath.Join(dir, "nope.yaml"), false); err == nil {
		t.Error("LoadOptions(required missing) error = nil")
	}

	path := filepath.Join(dir, DefaultOptionsFile)
	if err := os.WriteFile(path, []byte("options:\n  mode: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path, true); !core.IsKind(err, core.KindConfig) {
		t.Errorf("LoadOptions(invalid) error = %v, want config error", err)
	}
}
