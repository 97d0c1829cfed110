package extract

import (
	"errors"
	"fmt"
)

// Kind classifies extraction failures.
type Kind string

const (
	// KindDecode means a text payload could not be decoded with any
	// supported encoding.
	KindDecode Kind = "decode"
	// KindUnsupportedFormat means the file type has no extraction path.
	// Callers are expected to fall back to sending raw bytes to the model.
	KindUnsupportedFormat Kind = "unsupported_format"
	// KindToolFailure means the external extraction tool was missing,
	// crashed, or timed out.
	KindToolFailure Kind = "tool_failure"
)

// Error is a classified extraction failure. For tool failures it carries the
// invoked command line, exit code, and captured stderr for diagnostics.
type Error struct {
	Kind     Kind
	Message  string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Kind == KindToolFailure && e.Command != "" {
		return fmt.Sprintf("extract: %s: %s (cmd=%q exit=%d)", e.Kind, e.Message, e.Command, e.ExitCode)
	}
	return fmt.Sprintf("extract: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the extraction failure kind, or "" for other errors.
func KindOf(err error) Kind {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Kind
	}
	return ""
}
