package core

import "testing"

func TestBuildHash(t *testing.T) {
	a := EmittedFile{Path: "index.js", Contents: []byte("console.log(1)")}
	b := EmittedFile{Path: "index.css", Contents: []byte("body{}")}

	if got := BuildHash(nil); got != "" {
		t.Errorf("BuildHash(nil) = %q, want empty", got)
	}

	h1 := BuildHash([]EmittedFile{a, b})
	h2 := BuildHash([]EmittedFile{b, a})
	if h1 == "" || h1 != h2 {
		t.Errorf("BuildHash() order dependent: %q vs %q", h1, h2)
	}

	changed := EmittedFile{Path: "index.js", Contents: []byte("console.log(2)")}
	if BuildHash([]EmittedFile{changed, b}) == h1 {
		t.Errorf("BuildHash() ignores contents")
	}

	renamed := EmittedFile{Path: "main.js", Contents: a.Contents}
	if BuildHash([]EmittedFile{renamed, b}) == h1 {
		t.Errorf("BuildHash() ignores paths")
	}
}
