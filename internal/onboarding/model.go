package onboarding

import "tailorcv-backend/internal/resumes"

// Upload is one resume file received from a client.
type Upload struct {
	Data     []byte
	MIMEType string
	FileName string
}

// ResultKind distinguishes the terminal states of a successful pipeline
// run. Duplicate detections are successes, not errors; the client gets a
// 200 with a flag instead of new data.
type ResultKind string

const (
	ResultCreated         ResultKind = "created"
	ResultDuplicateUser   ResultKind = "duplicate_user"
	ResultDuplicateResume ResultKind = "duplicate_resume"
)

type Result struct {
	Kind     ResultKind
	Message  string
	ResumeID string
	// Data is the structured output sent back as enhanced_resume_data.
	Data map[string]any
	// Resume is set when an existing resume matched the upload's contact
	// details.
	Resume resumes.Resume
}

// contactDetails is what the snippet prompt yields for duplicate checks.
type contactDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}
