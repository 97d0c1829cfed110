package onboarding

import (
	"context"
	"errors"
	"strings"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/extract"
	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/resumes"
	"tailorcv-backend/internal/shared/telemetry"
	"tailorcv-backend/internal/users"
)

// contactSnippetLen bounds how much of the extracted text feeds the
// lightweight contact prompt.
const contactSnippetLen = 100

type Service struct {
	Extractor *extract.Extractor
	Model     llm.Client
	Resumes   *resumes.Service
	Users     users.Repo
	Bios      *bio.Service
}

// ProcessUpload runs the full onboarding pipeline: local text extraction,
// duplicate detection from a contact snippet, model structuring, and
// persistence. userID is empty for anonymous uploads; duplicate checks run
// only for those, since an authenticated re-upload is a deliberate act.
func (s *Service) ProcessUpload(ctx context.Context, userID string, upload Upload) (Result, error) {
	extractedText := s.extractText(ctx, upload)

	if userID == "" && extractedText != "" {
		if result, done := s.checkDuplicates(ctx, extractedText); done {
			return result, nil
		}
	}

	structured, err := s.structure(ctx, extractedText, upload)
	if err != nil {
		return Result{}, err
	}

	llm.WarnMissingKeys(structured, "first_name", "last_name", "email", "phone", "summary", "work", "skills")
	if err := llm.ValidateExtraction(structured); err != nil {
		return Result{}, &Failure{
			Kind:    FailureInvalidData,
			Message: "Invalid data provided for resume.",
			Err:     err,
		}
	}

	resume := resumes.FromStructured(structured)
	resume.Name = resumeName(structured)

	// Every processed upload becomes the base resume; a prior base is
	// demoted in the same transaction.
	saved, err := s.Resumes.SaveExtracted(ctx, userID, resume, true)
	if err != nil {
		telemetry.Error("onboarding.persist.failed", map[string]any{"error": err.Error()})
		return Result{}, &Failure{
			Kind:    FailurePersist,
			Message: "Failed to save processed resume data to the database after validation.",
			Data:    structured,
			Err:     err,
		}
	}

	if userID != "" && s.Bios != nil {
		s.seedBio(ctx, userID, structured)
	}

	return Result{
		Kind:     ResultCreated,
		Message:  "Resume processed and saved successfully.",
		ResumeID: saved.ID,
		Data:     structured,
	}, nil
}

// extractText is best effort. Unsupported formats and tool failures fall
// back to sending the raw file to the model.
func (s *Service) extractText(ctx context.Context, upload Upload) string {
	text, err := s.Extractor.FromUpload(ctx, upload.Data, upload.MIMEType, upload.FileName)
	if err != nil {
		telemetry.Warn("onboarding.extract.fallback", map[string]any{
			"kind":      string(extract.KindOf(err)),
			"file_name": upload.FileName,
			"error":     err.Error(),
		})
		return ""
	}
	return text
}

// checkDuplicates extracts contact details from the top of the resume and
// looks for an existing user or resume. Every failure along the way
// degrades to "no match" so a flaky model never blocks an upload.
func (s *Service) checkDuplicates(ctx context.Context, extractedText string) (Result, bool) {
	details := s.extractContact(ctx, extractedText)
	if details == nil {
		return Result{}, false
	}

	if details.Email != "" && s.Users != nil {
		if _, err := s.Users.GetByEmail(ctx, details.Email); err == nil {
			return Result{
				Kind:    ResultDuplicateUser,
				Message: "A user account matching the provided email already exists. Please log in to upload or manage your resumes.",
			}, true
		} else if !errors.Is(err, users.ErrNotFound) {
			telemetry.Error("onboarding.duplicate.user_check_failed", map[string]any{"error": err.Error()})
		}
	}

	existing, found, err := s.Resumes.FindByContact(ctx, details.Email, details.Phone)
	if err != nil {
		telemetry.Error("onboarding.duplicate.resume_check_failed", map[string]any{"error": err.Error()})
		return Result{}, false
	}
	if found {
		return Result{
			Kind:     ResultDuplicateResume,
			Message:  "An existing resume matching the provided contact details was found.",
			ResumeID: existing.ID,
			Resume:   existing,
		}, true
	}
	return Result{}, false
}

func (s *Service) extractContact(ctx context.Context, extractedText string) *contactDetails {
	snippet := extractedText
	if runes := []rune(snippet); len(runes) > contactSnippetLen {
		snippet = string(runes[:contactSnippetLen])
	}

	resp, err := s.Model.Generate(ctx, llm.ContactPrompt(snippet), nil)
	if err != nil {
		telemetry.Warn("onboarding.contact.generate_failed", map[string]any{"error": err.Error()})
		return nil
	}
	data, _, err := llm.Interpret(resp)
	if err != nil {
		telemetry.Warn("onboarding.contact.interpret_failed", map[string]any{"error": err.Error()})
		return nil
	}
	details := &contactDetails{
		FirstName: strField(data, "first_name"),
		LastName:  strField(data, "last_name"),
		Email:     strings.TrimSpace(strField(data, "email")),
		Phone:     strings.TrimSpace(strField(data, "phone")),
	}
	if details.Email == "" && details.Phone == "" {
		return nil
	}
	return details
}

// structure runs the main extraction prompt, inline when text is
// available and with the raw file attached otherwise.
func (s *Service) structure(ctx context.Context, extractedText string, upload Upload) (map[string]any, error) {
	var att *llm.Attachment
	if extractedText == "" {
		att = &llm.Attachment{MIMEType: upload.MIMEType, Data: upload.Data}
	}

	resp, err := s.Model.Generate(ctx, llm.ExtractionPrompt(extractedText), att)
	if err != nil {
		return nil, &Failure{
			Kind:    FailureModel,
			Message: "Failed to process resume content using AI.",
			Err:     err,
		}
	}

	data, path, err := llm.Interpret(resp)
	if err != nil {
		var ierr *llm.InterpretError
		message := "Failed to process resume content using AI."
		if errors.As(err, &ierr) && ierr.Kind == llm.KindBlocked {
			message = "Resume processing was blocked by the AI provider: " + ierr.Reason
		}
		return nil, &Failure{Kind: FailureModel, Message: message, Err: err}
	}
	telemetry.Info("onboarding.structure.parsed", map[string]any{"path": string(path)})
	return data, nil
}

func (s *Service) seedBio(ctx context.Context, userID string, structured map[string]any) {
	seed := bio.Seed{
		FirstName: strField(structured, "first_name"),
		LastName:  strField(structured, "last_name"),
		Email:     strField(structured, "email"),
		Phone:     strField(structured, "phone"),
		Location:  strField(structured, "location"),
		Summary:   strField(structured, "summary"),
	}
	if socials, ok := structured["socials"].([]any); ok {
		for _, raw := range socials {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			seed.Socials = append(seed.Socials, bio.SocialProfile{
				Network:  strField(entry, "network"),
				Username: strField(entry, "username"),
				URL:      strField(entry, "url"),
			})
		}
	}
	if _, err := s.Bios.SeedFromExtraction(ctx, userID, seed); err != nil {
		// Bio seeding is a convenience; the resume is already saved.
		telemetry.Warn("onboarding.bio.seed_failed", map[string]any{"error": err.Error()})
	}
}

func resumeName(structured map[string]any) string {
	first := strings.TrimSpace(strField(structured, "first_name"))
	last := strings.TrimSpace(strField(structured, "last_name"))
	name := strings.TrimSpace(strings.Join([]string{first, last, "Resume"}, " "))
	if name == "Resume" {
		return "Uploaded Resume"
	}
	return strings.Join(strings.Fields(name), " ")
}

func strField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
