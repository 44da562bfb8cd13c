package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBuildMetrics(t *testing.T) {
	successes := testutil.ToFloat64(BuildCount.WithLabelValues("success"))
	failures := testutil.ToFloat64(BuildFailed.WithLabelValues("run"))
	assets := testutil.ToFloat64(AssetsEmitted)
	templates := testutil.ToFloat64(TemplatesWritten)

	BuildSucceeded(time.Now(), 3, 2)
	BuildFailure(time.Now(), "run")

	if got := testutil.ToFloat64(BuildCount.WithLabelValues("success")) - successes; got != 1 {
		t.Errorf("success count delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(BuildFailed.WithLabelValues("run")) - failures; got != 1 {
		t.Errorf("failure count delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(AssetsEmitted) - assets; got != 3 {
		t.Errorf("assets delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(TemplatesWritten) - templates; got != 2 {
		t.Errorf("templates delta = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	BuildSucceeded(time.Now(), 1, 0)

	path := filepath.Join(t.TempDir(), "reactpack.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), `reactpack_build_count{result="success"}`) {
		t.Errorf("textfile missing build count:\n%s", bs)
	}

	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("WriteTextfile() expected error for a missing directory")
	}
}
