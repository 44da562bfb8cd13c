package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfig   = errors.New("config error")
	ErrSetup    = errors.New("setup error")
	ErrRun      = errors.New("run error")
	ErrTemplate = errors.New("template error")
)

type ErrorKind string

const (
	KindConfig   ErrorKind = "config"
	KindSetup    ErrorKind = "setup"
	KindRun      ErrorKind = "run"
	KindTemplate ErrorKind = "template"
)

// BuildError carries the phase that failed along with any structured
// details reported by the bundler.
type BuildError struct {
	Kind    ErrorKind
	Op      string
	Entry   string
	Path    string
	Details []string
	Err     error
}

func (e *BuildError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	if e.Entry != "" {
		fmt.Fprintf(&sb, " (entry=%s)", e.Entry)
	}
	if e.Path != "" {
		fmt.Fprintf(&sb, " (path=%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *BuildError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *BuildError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrSetup:
		return e.Kind == KindSetup
	case ErrRun:
		return e.Kind == KindRun
	case ErrTemplate:
		return e.Kind == KindTemplate
	}
	return false
}

func IsKind(err error, kind ErrorKind) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// DetailsOf returns the bundler details attached to err, if any.
func DetailsOf(err error) []string {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Details
	}
	return nil
}

func ConfigError(op string, err error) error {
	return &BuildError{Kind: KindConfig, Op: op, Err: err}
}

func SetupError(op string, err error) error {
	var be *BuildError
	if errors.As(err, &be) {
		return err
	}
	return &BuildError{Kind: KindSetup, Op: op, Err: err}
}

func RunError(op string, err error, details []string) error {
	return &BuildError{Kind: KindRun, Op: op, Details: details, Err: err}
}

func TemplateError(entry string, err error) error {
	return &BuildError{Kind: KindTemplate, Op: "compile template", Entry: entry, Err: err}
}
