package core

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/gobwas/glob"
)

var (
	DefaultInclude = []string{"*.js", "*.jsx", "*.css"}
	DefaultClean   = []string{"*.min.js"}
)

// PatternSet matches file paths against glob patterns. A pattern matches when
// it matches either the file's base name or its slash separated path
// relative to the root the set is applied to.
type PatternSet struct {
	patterns []string
	globs    []glob.Glob
}

func CompilePatterns(patterns []string) (*PatternSet, error) {
	set := &PatternSet{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

func (s *PatternSet) Match(relPath string) bool {
	if s == nil {
		return false
	}
	slashed := filepath.ToSlash(relPath)
	base := path.Base(slashed)
	for _, g := range s.globs {
		if g.Match(base) || g.Match(slashed) {
			return true
		}
	}
	return false
}

func (s *PatternSet) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}
