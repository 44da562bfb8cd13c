package core

import (
	"maps"
	"slices"
	"strings"
)

type mergeSettings struct {
	replace map[string]bool
}

type MergeOption func(*mergeSettings)

// WithReplace makes arrays at the given dotted paths (for example
// "module.rules") take the later layer's value instead of concatenating.
func WithReplace(paths ...string) MergeOption {
	return func(s *mergeSettings) {
		for _, p := range paths {
			p = strings.Trim(strings.TrimSpace(p), ".")
			if p != "" {
				s.replace[p] = true
			}
		}
	}
}

// DeepMerge folds layers left to right into a new map. Maps merge key by key,
// arrays concatenate and any other value from a later layer wins. Inputs are
// never modified and the result shares no maps or slices with them.
func DeepMerge(layers []map[string]any, opts ...MergeOption) map[string]any {
	settings := mergeSettings{replace: map[string]bool{}}
	for _, opt := range opts {
		opt(&settings)
	}

	result := map[string]any{}
	for _, layer := range layers {
		result = mergeMaps(result, layer, "", &settings)
	}
	return result
}

func mergeMaps(dst, src map[string]any, path string, s *mergeSettings) map[string]any {
	result := make(map[string]any, len(dst)+len(src))
	for key, value := range dst {
		result[key] = value
	}
	for _, key := range slices.Sorted(maps.Keys(src)) {
		result[key] = mergeValue(result[key], src[key], joinPath(path, key), s)
	}
	return result
}

func mergeValue(existing, value any, path string, s *mergeSettings) any {
	switch v := value.(type) {
	case map[string]any:
		if e, ok := existing.(map[string]any); ok {
			return mergeMaps(e, v, path, s)
		}
		return mergeMaps(map[string]any{}, v, path, s)
	case []any:
		if e, ok := existing.([]any); ok && !s.replace[path] {
			out := make([]any, 0, len(e)+len(v))
			out = append(out, cloneSlice(e)...)
			return append(out, cloneSlice(v)...)
		}
		return cloneSlice(v)
	}
	return cloneValue(value)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		return cloneSlice(x)
	}
	return v
}

func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, item := range s {
		out[i] = cloneValue(item)
	}
	return out
}
