package command

import (
	"fmt"
	"io"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// writeError prints err and any bundler details attached to it.
func writeError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	for _, d := range core.DetailsOf(err) {
		fmt.Fprintf(w, "  %s\n", d)
	}
}
