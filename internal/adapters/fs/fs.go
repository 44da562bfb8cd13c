// Package fs provides the file access the build and clean services go
// through, backed either by the OS or by embedded defaults.
package fs

import (
	iofs "io/fs"
)

type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]iofs.DirEntry, error)
	FileExists(path string) bool
	// WriteFile creates missing parent directories.
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
	Remove(path string) error
	WalkDir(root string, fn iofs.WalkDirFunc) error
}
