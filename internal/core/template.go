package core

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headMarker    = regexp.MustCompile(`<!--\s*@head\s*-->`)
	scriptsMarker = regexp.MustCompile(`<!--\s*@scripts\s*-->`)
)

// AssetURL appends the cache busting query when a hash is known.
func AssetURL(name, hash string) string {
	if hash == "" {
		return name
	}
	return name + "?v=" + hash
}

// RenderTemplate injects the entry point's stylesheets into every @head
// marker and its scripts into every @scripts marker. Auxiliary assets come
// before primary assets; anything that is neither .css nor .js is skipped.
func RenderTemplate(ep Entrypoint, template, hash string) string {
	var head, scripts strings.Builder

	assets := make([]Asset, 0, len(ep.AuxiliaryAssets)+len(ep.Assets))
	assets = append(assets, ep.AuxiliaryAssets...)
	assets = append(assets, ep.Assets...)

	for _, asset := range assets {
		url := AssetURL(asset.Name, hash)
		switch KindOf(asset.Name) {
		case AssetStylesheet:
			fmt.Fprintf(&head, `<link rel="stylesheet" href="%s">`, url)
		case AssetScript:
			fmt.Fprintf(&scripts, `<script src="%s"></script>`, url)
		}
	}

	out := headMarker.ReplaceAllLiteralString(template, head.String())
	return scriptsMarker.ReplaceAllLiteralString(out, scripts.String())
}
