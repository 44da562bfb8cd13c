package core

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultEntryName is used when an entry path has no usable file name.
const DefaultEntryName = "main"

// EntryNameForPath derives an entry point name from a module path:
// "./src/index.jsx" becomes "index".
func EntryNameForPath(modulePath string) string {
	name := path.Base(filepath.ToSlash(modulePath))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		return DefaultEntryName
	}
	return name
}

// HTMLPathForEntry returns where the rendered template of an entry point is
// written.
func HTMLPathForEntry(basedir, entryName string) string {
	return filepath.Join(basedir, entryName+".html")
}
