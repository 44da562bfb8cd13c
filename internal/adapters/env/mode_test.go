package env

import (
	"testing"

	"github.com/3-lines-studio/reactpack/internal/core"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		value string
		want  core.Mode
	}{
		{value: "", want: ""},
		{value: "development", want: core.ModeDevelopment},
		{value: "Production", want: core.ModeProduction},
		{value: "test", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.value)
			if got := DetectMode(); got != tt.want {
				t.Errorf("DetectMode() = %q, want %q", got, tt.want)
			}
		})
	}
}
