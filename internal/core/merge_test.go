package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name   string
		layers []map[string]any
		opts   []MergeOption
		want   map[string]any
	}{
		{
			name:   "no layers",
			layers: nil,
			want:   map[string]any{},
		},
		{
			name: "scalars take the later value",
			layers: []map[string]any{
				{"mode": "production", "context": "/a"},
				{"mode": "development"},
			},
			want: map[string]any{"mode": "development", "context": "/a"},
		},
		{
			name: "maps merge recursively",
			layers: []map[string]any{
				{"output": map[string]any{"path": "/dist", "filename": "[name].js"}},
				{"output": map[string]any{"publicPath": "/static/"}},
			},
			want: map[string]any{"output": map[string]any{
				"path":       "/dist",
				"filename":   "[name].js",
				"publicPath": "/static/",
			}},
		},
		{
			name: "arrays concatenate",
			layers: []map[string]any{
				{"plugins": []any{"a"}},
				{"plugins": []any{"b", "c"}},
			},
			want: map[string]any{"plugins": []any{"a", "b", "c"}},
		},
		{
			name: "replace path swaps arrays",
			layers: []map[string]any{
				{"module": map[string]any{"rules": []any{"base"}}, "plugins": []any{"a"}},
				{"module": map[string]any{"rules": []any{"override"}}, "plugins": []any{"b"}},
			},
			opts: []MergeOption{WithReplace("module.rules")},
			want: map[string]any{
				"module":  map[string]any{"rules": []any{"override"}},
				"plugins": []any{"a", "b"},
			},
		},
		{
			name: "type mismatch takes the later value",
			layers: []map[string]any{
				{"entry": map[string]any{"main": "./a.js"}},
				{"entry": "./b.js"},
			},
			want: map[string]any{"entry": "./b.js"},
		},
		{
			name: "nil layer skipped",
			layers: []map[string]any{
				{"mode": "production"},
				nil,
			},
			want: map[string]any{"mode": "production"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.layers, tt.opts...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeepMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{
		"module": map[string]any{"rules": []any{map[string]any{"test": "js"}}},
	}
	override := map[string]any{
		"module": map[string]any{"rules": []any{map[string]any{"test": "css"}}},
	}

	merged := DeepMerge([]map[string]any{base, override})

	rules := merged["module"].(map[string]any)["rules"].([]any)
	rules[0].(map[string]any)["test"] = "changed"

	want := map[string]any{
		"module": map[string]any{"rules": []any{map[string]any{"test": "js"}}},
	}
	if diff := cmp.Diff(want, base); diff != "" {
		t.Errorf("base mutated (-want +got):\n%s", diff)
	}
	if got := len(override["module"].(map[string]any)["rules"].([]any)); got != 1 {
		t.Errorf("override rules length = %d, want 1", got)
	}
}

func TestDeepMergeAssociative(t *testing.T) {
	a := map[string]any{
		"mode":    "production",
		"plugins": []any{"a"},
		"output":  map[string]any{"path": "/a", "filename": "a.js"},
	}
	b := map[string]any{
		"plugins": []any{"b"},
		"output":  map[string]any{"path": "/b"},
		"devtool": "source-map",
	}
	c := map[string]any{
		"mode":    "development",
		"plugins": []any{"c"},
		"output":  map[string]any{"publicPath": "/c/"},
	}

	multi := DeepMerge([]map[string]any{a, b, c})
	pairwise := DeepMerge([]map[string]any{DeepMerge([]map[string]any{a, b}), c})
	rightFirst := DeepMerge([]map[string]any{a, DeepMerge([]map[string]any{b, c})})

	if diff := cmp.Diff(multi, pairwise); diff != "" {
		t.Errorf("multi-way vs left fold (-multi +pairwise):\n%s", diff)
	}
	if diff := cmp.Diff(multi, rightFirst); diff != "" {
		t.Errorf("multi-way vs right grouping (-multi +rightFirst):\n%s", diff)
	}
	if multi["mode"] != "development" {
		t.Errorf("mode = %v, want development", multi["mode"])
	}
}
