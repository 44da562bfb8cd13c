package core

import (
	"path/filepath"
	"strings"
)

type AssetKind int

const (
	AssetOther AssetKind = iota
	AssetStylesheet
	AssetScript
)

func (k AssetKind) String() string {
	switch k {
	case AssetStylesheet:
		return "stylesheet"
	case AssetScript:
		return "script"
	}
	return "other"
}

var assetKinds = map[string]AssetKind{
	".css": AssetStylesheet,
	".js":  AssetScript,
}

// KindOf classifies an asset by its file name suffix. Only exact ".css" and
// ".js" suffixes count; ".mjs" or ".js.map" are other.
func KindOf(name string) AssetKind {
	return assetKinds[filepath.Ext(stripQuery(name))]
}

func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		return name[:i]
	}
	return name
}
