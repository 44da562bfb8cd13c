package env

import (
	"os"
	"strings"

	"github.com/3-lines-studio/reactpack/internal/core"
)

// DetectMode maps NODE_ENV to a build mode. Unknown or unset values leave the
// mode empty so the production default applies.
func DetectMode() core.Mode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NODE_ENV"))) {
	case "development", "dev":
		return core.ModeDevelopment
	case "production", "prod":
		return core.ModeProduction
	}
	return ""
}
