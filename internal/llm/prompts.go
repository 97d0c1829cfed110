package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/extraction.txt
	extractionPrompt string
	//go:embed prompts/tailoring.txt
	tailoringPrompt string
	//go:embed prompts/contact.txt
	contactPrompt string
)

// ExtractionPrompt builds the structuring prompt for an uploaded resume.
// With resumeText the document travels inline; with an empty resumeText the
// caller is expected to pass the raw file as an attachment instead.
func ExtractionPrompt(resumeText string) string {
	if strings.TrimSpace(resumeText) == "" {
		return extractionPrompt
	}
	var b strings.Builder
	b.WriteString(extractionPrompt)
	b.WriteString("\n--- RESUME DOCUMENT TEXT ---\n")
	b.WriteString(resumeText)
	return b.String()
}

// TailoringPrompt builds the generation prompt from a formatted candidate
// profile and a job description.
func TailoringPrompt(baseData string, jobDescription string) string {
	out := strings.ReplaceAll(tailoringPrompt, "{{BASE_DATA}}", baseData)
	return strings.ReplaceAll(out, "{{JOB_DESCRIPTION}}", jobDescription)
}

// ContactPrompt builds the lightweight contact-detail prompt for a short
// snippet from the top of a resume.
func ContactPrompt(snippet string) string {
	return strings.ReplaceAll(contactPrompt, "{{SNIPPET}}", snippet)
}
