package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeCompilerOptions(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    CompilerOptions
		wantErr bool
	}{
		{
			name: "empty uses defaults",
			raw:  map[string]any{},
			want: DefaultCompilerOptions(),
		},
		{
			name: "numeric target coerced",
			raw:  map[string]any{"target": 17},
			want: CompilerOptions{Target: "17", CompilationMode: "infer", PanicThreshold: "none"},
		},
		{
			name: "all fields",
			raw: map[string]any{
				"target":          "18",
				"compilationMode": "annotation",
				"panicThreshold":  "all_errors",
				"sources":         []any{"src"},
			},
			want: CompilerOptions{Target: "18", CompilationMode: "annotation", PanicThreshold: "all_errors", Sources: []string{"src"}},
		},
		{name: "unknown target", raw: map[string]any{"target": "16"}, wantErr: true},
		{name: "unknown key", raw: map[string]any{"gating": true}, wantErr: true},
		{name: "bad threshold", raw: map[string]any{"panicThreshold": "some"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCompilerOptions(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCompilerOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !IsKind(err, KindConfig) {
					t.Errorf("error kind = %v, want config", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeCompilerOptions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompilerOptionsMap(t *testing.T) {
	got := CompilerOptions{Target: "19", CompilationMode: "all", PanicThreshold: "none", Sources: []string{"app"}}.Map()
	want := map[string]any{
		"target":          "19",
		"compilationMode": "all",
		"panicThreshold":  "none",
		"sources":         []any{"app"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}
