package core

import (
	"slices"
)

type Asset struct {
	Name string `json:"name"`
}

// Entrypoint lists what the bundler emitted for one entry point. Assets holds
// the primary output, AuxiliaryAssets the files emitted alongside it such as
// an extracted stylesheet.
type Entrypoint struct {
	Name            string  `json:"name"`
	Assets          []Asset `json:"assets"`
	AuxiliaryAssets []Asset `json:"auxiliaryAssets,omitempty"`
}

// Stats is the manifest of a successful bundler run.
type Stats struct {
	Hash        string                `json:"hash,omitempty"`
	Entrypoints map[string]Entrypoint `json:"entrypoints"`
	Warnings    []string              `json:"warnings,omitempty"`
	// Files lists every emitted file relative to the output directory.
	Files []string `json:"files,omitempty"`
}

// SortedEntrypoints returns the entry points ordered by name.
func (s *Stats) SortedEntrypoints() []Entrypoint {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Entrypoints))
	for name := range s.Entrypoints {
		names = append(names, name)
	}
	slices.Sort(names)

	eps := make([]Entrypoint, 0, len(names))
	for _, name := range names {
		ep := s.Entrypoints[name]
		if ep.Name == "" {
			ep.Name = name
		}
		eps = append(eps, ep)
	}
	return eps
}

// AssetCount returns the number of assets across all entry points.
func (s *Stats) AssetCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ep := range s.Entrypoints {
		n += len(ep.Assets) + len(ep.AuxiliaryAssets)
	}
	return n
}
