package core

import (
	"encoding/binary"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// EmittedFile is one file produced by the bundler, with its path relative to
// the output directory.
type EmittedFile struct {
	Path     string
	Contents []byte
}

// BuildHash derives the build-wide hash from every emitted file. It does not
// depend on the order files are passed in.
func BuildHash(files []EmittedFile) string {
	if len(files) == 0 {
		return ""
	}

	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b EmittedFile) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})

	d := xxhash.New()
	var size [8]byte
	for _, f := range sorted {
		_, _ = d.WriteString(f.Path)
		binary.LittleEndian.PutUint64(size[:], uint64(len(f.Contents)))
		_, _ = d.Write(size[:])
		_, _ = d.Write(f.Contents)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
