package onboarding

import "fmt"

// FailureKind classifies pipeline failures so the handler can map them
// onto response codes.
type FailureKind string

const (
	// FailureModel covers upstream model errors, safety blocks, and
	// uninterpretable output.
	FailureModel FailureKind = "model"
	// FailureInvalidData means the model produced JSON that does not
	// match the resume shape.
	FailureInvalidData FailureKind = "invalid_data"
	// FailurePersist means generation succeeded but the save failed;
	// the generated data still travels back to the client.
	FailurePersist FailureKind = "persist"
)

type Failure struct {
	Kind    FailureKind
	Message string
	// Data carries the generated resume data on persist failures.
	Data map[string]any
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("onboarding: %s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("onboarding: %s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }
