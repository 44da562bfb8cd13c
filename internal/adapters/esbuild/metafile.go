package esbuild

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/reactpack/internal/core"
)

type metafile struct {
	Outputs map[string]metafileOutput `json:"outputs"`
}

type metafileOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
	CSSBundle  string `json:"cssBundle,omitempty"`
}

// parseStats maps the metafile back onto configured entry points. Metafile
// paths are relative to the working directory; asset names are relative to
// the output directory.
func parseStats(raw string, l layout) (map[string]core.Entrypoint, error) {
	var meta metafile
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}

	byInput := make(map[string]string, len(l.Entries))
	for _, e := range l.Entries {
		byInput[e.Input] = e.Name
	}

	entrypoints := make(map[string]core.Entrypoint, len(l.Entries))
	for outPath, out := range meta.Outputs {
		if out.EntryPoint == "" {
			continue
		}
		input := strings.TrimPrefix(out.EntryPoint, "file:")
		name, ok := byInput[filepath.Clean(filepath.Join(l.WorkingDir, filepath.FromSlash(input)))]
		if !ok {
			continue
		}

		asset, err := assetName(l, outPath)
		if err != nil {
			return nil, err
		}
		ep := core.Entrypoint{Name: name, Assets: []core.Asset{{Name: asset}}}
		if out.CSSBundle != "" {
			css, err := assetName(l, out.CSSBundle)
			if err != nil {
				return nil, err
			}
			ep.AuxiliaryAssets = []core.Asset{{Name: css}}
		}
		entrypoints[name] = ep
	}

	for _, e := range l.Entries {
		if _, ok := entrypoints[e.Name]; !ok {
			return nil, fmt.Errorf("metafile has no output for entry %q", e.Name)
		}
	}
	return entrypoints, nil
}

func assetName(l layout, metaPath string) (string, error) {
	abs := filepath.Join(l.WorkingDir, filepath.FromSlash(metaPath))
	rel, err := filepath.Rel(l.Outdir, abs)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to output directory: %w", metaPath, err)
	}
	return filepath.ToSlash(rel), nil
}
