package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterOutputColors(t *testing.T) {
	var buf bytes.Buffer
	o := NewWriterOutput(&buf, &buf)
	if got := o.Green("ok"); got != "ok" {
		t.Errorf("Green() on a buffer = %q, want plain text", got)
	}

	o.enableColors = true
	if got := o.Red("bad"); got != "\033[31mbad\033[0m" {
		t.Errorf("Red() = %q, want colored text", got)
	}

	o.DisableColors()
	if got := o.Yellow("warn"); got != "warn" {
		t.Errorf("Yellow() after DisableColors() = %q, want plain text", got)
	}
}

func TestOutputPrinting(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewWriterOutput(&out, &errOut)

	o.PrintHeader("reactpack")
	o.PrintSuccess("built %d files", 2)
	o.PrintError("failed %s", "index")
	o.PrintDone("Stopped watching")

	for _, want := range []string{"reactpack\n", "✓ built 2 files", "Stopped watching\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("out = %q, missing %q", out.String(), want)
		}
	}
	if !strings.Contains(errOut.String(), "✗ failed index") {
		t.Errorf("errOut = %q, want error line", errOut.String())
	}
}
