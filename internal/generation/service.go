package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/jobposts"
	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/resumes"
	"tailorcv-backend/internal/shared/telemetry"
)

// ErrNoBaseResume means the user has nothing to tailor from yet.
var ErrNoBaseResume = errors.New("no base resume to tailor from")

// ErrModel wraps upstream model failures so the handler can answer 502.
var ErrModel = errors.New("tailoring model failed")

// ErrBlocked means the provider's safety filter refused the request.
var ErrBlocked = errors.New("generation blocked by safety filter")

type Request struct {
	JobDescription string `json:"jd_text"`
	SourceURL      string `json:"source_url"`
	CompanyName    string `json:"company_name"`
	JobTitle       string `json:"job_title"`
}

type Service struct {
	Model    llm.Client
	Resumes  *resumes.Service
	Bios     *bio.Service
	JobPosts *jobposts.Service
}

// GenerateForJD tailors the user's base resume to a job description and
// stores the result as a new non-base resume.
func (s *Service) GenerateForJD(ctx context.Context, userID string, req Request) (resumes.Resume, error) {
	base, err := s.Resumes.GetBase(ctx, userID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return resumes.Resume{}, ErrNoBaseResume
		}
		return resumes.Resume{}, fmt.Errorf("load base resume: %w", err)
	}

	var profile bio.Bio
	if s.Bios != nil {
		if loaded, err := s.Bios.Get(ctx, userID); err == nil {
			profile = loaded
		} else if !errors.Is(err, bio.ErrNotFound) {
			return resumes.Resume{}, fmt.Errorf("load bio: %w", err)
		}
	}

	telemetry.Info("generation.start", map[string]any{
		"user_id":     userID,
		"jd_keywords": strings.Join(KeywordsFromJD(req.JobDescription), ","),
	})

	prompt := llm.TailoringPrompt(FormatProfile(profile, base), req.JobDescription)
	resp, err := s.Model.Generate(ctx, prompt, nil)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	data, path, err := llm.Interpret(resp)
	if err != nil {
		var ierr *llm.InterpretError
		if errors.As(err, &ierr) && ierr.Kind == llm.KindBlocked {
			return resumes.Resume{}, fmt.Errorf("%w (%s)", ErrBlocked, ierr.Reason)
		}
		return resumes.Resume{}, fmt.Errorf("%w: %v", ErrModel, err)
	}
	llm.WarnMissingKeys(data, "summary", "work", "skills")
	if err := llm.ValidateTailoring(data); err != nil {
		return resumes.Resume{}, fmt.Errorf("%w: %v", ErrModel, err)
	}
	telemetry.Info("generation.parsed", map[string]any{"path": string(path)})

	if s.JobPosts != nil && strings.TrimSpace(req.SourceURL) != "" {
		if _, err := s.JobPosts.CreateOrGet(ctx, jobposts.JobPost{
			SourceURL:      req.SourceURL,
			CompanyName:    req.CompanyName,
			JobTitle:       req.JobTitle,
			JobDescription: req.JobDescription,
		}); err != nil {
			telemetry.Warn("generation.jobpost.save_failed", map[string]any{"error": err.Error()})
		}
	}

	generated := resumes.FromStructured(data)
	generated.Name = tailoredName(req.CompanyName)
	generated.Email = base.Email
	generated.Phone = base.Phone
	generated.Location = base.Location
	generated.Education = base.Education
	generated.Languages = base.Languages
	generated.Certificates = base.Certificates
	generated.Socials = base.Socials
	generated.SourceJobDescription = req.JobDescription
	generated.SourceJobURL = req.SourceURL
	generated.SourceCompanyName = req.CompanyName

	saved, err := s.Resumes.SaveExtracted(ctx, userID, generated, false)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("save generated resume: %w", err)
	}
	return saved, nil
}

func tailoredName(companyName string) string {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		companyName = "Company from JD"
	}
	return "Resume for " + companyName
}
