package usecase

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactpack/internal/adapters/cli"
	"github.com/3-lines-studio/reactpack/internal/adapters/fs"
)

func newInitService() *InitService {
	return NewInitService(fs.NewOSFileSystem(), cli.NewWriterOutput(io.Discard, io.Discard), zerolog.Nop())
}

func TestInitProjectWritesStarter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shop")

	out := newInitService().InitProject(InitInput{ProjectDir: dir})
	if !out.Success {
		t.Fatalf("InitProject() error = %v", out.Error)
	}
	if len(out.Files) != 5 {
		t.Errorf("InitProject() wrote %d files, want 5: %v", len(out.Files), out.Files)
	}

	pkg, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	if !strings.Contains(string(pkg), `"name": "shop"`) {
		t.Errorf("package.json = %s, want project name shop", pkg)
	}

	index, err := os.ReadFile(filepath.Join(dir, "src", "index.jsx"))
	if err != nil {
		t.Fatalf("read src/index.jsx: %v", err)
	}
	if strings.Contains(string(index), "{{.Name}}") {
		t.Errorf("src/index.jsx kept placeholder: %s", index)
	}

	for _, file := range []string{"reactpack.yaml", ".gitignore", filepath.Join("src", "app.css")} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("missing %s: %v", file, err)
		}
	}
}

func TestInitProjectExplicitName(t *testing.T) {
	dir := t.TempDir()

	out := newInitService().InitProject(InitInput{ProjectDir: dir, Name: "storefront"})
	if !out.Success {
		t.Fatalf("InitProject() error = %v", out.Error)
	}
	pkg, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pkg), `"name": "storefront"`) {
		t.Errorf("package.json = %s, want project name storefront", pkg)
	}
}

func TestInitProjectFailures(t *testing.T) {
	t.Run("non-empty directory", func(t *testing.T) {
		dir := t.TempDir()
		existing := filepath.Join(dir, "package.json")
		if err := os.WriteFile(existing, []byte(`{"name":"mine"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		out := newInitService().InitProject(InitInput{ProjectDir: dir})
		if out.Success || out.Error == nil {
			t.Fatalf("InitProject() = %+v, want failure", out)
		}
		if !strings.Contains(out.Error.Error(), "not empty") {
			t.Errorf("InitProject() error = %v, want not empty", out.Error)
		}
		if len(out.Files) != 0 {
			t.Errorf("InitProject() wrote %v, want nothing", out.Files)
		}

		got, err := os.ReadFile(existing)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != `{"name":"mine"}` {
			t.Errorf("package.json = %s, want it untouched", got)
		}
		if _, err := os.Stat(filepath.Join(dir, "reactpack.yaml")); !os.IsNotExist(err) {
			t.Errorf("reactpack.yaml should not be written, stat error = %v", err)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		out := newInitService().InitProject(InitInput{ProjectDir: t.TempDir(), Template: "desktop"})
		if out.Success || out.Error == nil {
			t.Fatalf("InitProject() = %+v, want failure", out)
		}
	})
}
