package resumes

import "errors"

var (
	ErrNotFound = errors.New("resume not found")
	// ErrBaseUndeletable guards the single base resume per user; it must
	// be replaced, never removed outright.
	ErrBaseUndeletable = errors.New("base resume cannot be deleted")
)
