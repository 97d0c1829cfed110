package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/jobposts"
	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/resumes"
)

const tailoredJSON = `{
	"summary": "Backend engineer for Acme.",
	"work": [{"name": "OldCo", "position": "Engineer", "highlights": ["Built services"]}],
	"skills": [{"category": "Backend", "skills": ["Go", "Postgres"]}],
	"projects": []
}`

type fakeModel struct {
	resp       *llm.ModelResponse
	err        error
	lastPrompt string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, att *llm.Attachment) (*llm.ModelResponse, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestService(model llm.Client) (*Service, *resumes.MemoryRepo) {
	repo := resumes.NewMemoryRepo()
	return &Service{
		Model:    model,
		Resumes:  resumes.NewService(repo),
		Bios:     bio.NewService(bio.NewMemoryRepo()),
		JobPosts: jobposts.NewService(jobposts.NewMemoryRepo()),
	}, repo
}

func seedBase(t *testing.T, svc *Service) resumes.Resume {
	t.Helper()
	base := resumes.Resume{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Summary: "Engineer with Go experience.",
		Work:    json.RawMessage(`[{"name": "OldCo", "position": "Engineer", "highlights": ["Did work"]}]`),
		Skills:  json.RawMessage(`[{"category": "Backend", "skills": ["Go"]}]`),
	}
	saved, err := svc.Resumes.SaveExtracted(context.Background(), "user-1", base, true)
	if err != nil {
		t.Fatalf("seed base resume: %v", err)
	}
	return saved
}

func TestGenerateForJDRequiresBase(t *testing.T) {
	svc, _ := newTestService(&fakeModel{resp: &llm.ModelResponse{Text: tailoredJSON}})

	_, err := svc.GenerateForJD(context.Background(), "user-1", Request{JobDescription: "Go role"})
	if !errors.Is(err, ErrNoBaseResume) {
		t.Fatalf("expected ErrNoBaseResume, got %v", err)
	}
}

func TestGenerateForJDCreatesNonBaseResume(t *testing.T) {
	model := &fakeModel{resp: &llm.ModelResponse{Text: tailoredJSON}}
	svc, repo := newTestService(model)
	base := seedBase(t, svc)

	got, err := svc.GenerateForJD(context.Background(), "user-1", Request{
		JobDescription: "We need a Go backend engineer.",
		CompanyName:    "Acme",
		SourceURL:      "https://jobs.example.com/acme-go",
	})
	if err != nil {
		t.Fatalf("GenerateForJD: %v", err)
	}
	if got.IsBaseResume {
		t.Fatal("generated resume must not replace the base")
	}
	if got.Name != "Resume for Acme" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if got.Email != base.Email {
		t.Fatal("contact basics should carry over from the base")
	}
	if got.SourceJobDescription == "" {
		t.Fatal("source job description should be recorded")
	}

	stillBase, err := repo.GetBase(context.Background(), "user-1")
	if err != nil || stillBase.ID != base.ID {
		t.Fatalf("base resume should be untouched: %v", err)
	}

	if !strings.Contains(model.lastPrompt, "We need a Go backend engineer.") {
		t.Fatal("job description missing from prompt")
	}
	if !strings.Contains(model.lastPrompt, "Engineer with Go experience.") {
		t.Fatal("base summary missing from prompt")
	}
}

func TestGenerateForJDRecordsJobPost(t *testing.T) {
	svc, _ := newTestService(&fakeModel{resp: &llm.ModelResponse{Text: tailoredJSON}})
	seedBase(t, svc)

	_, err := svc.GenerateForJD(context.Background(), "user-1", Request{
		JobDescription: "Go role",
		SourceURL:      "https://jobs.example.com/123",
		CompanyName:    "Acme",
	})
	if err != nil {
		t.Fatalf("GenerateForJD: %v", err)
	}
	post, err := svc.JobPosts.Repo.GetBySourceURL(context.Background(), "https://jobs.example.com/123")
	if err != nil {
		t.Fatalf("job post not recorded: %v", err)
	}
	if post.CompanyName != "Acme" {
		t.Fatalf("unexpected company %q", post.CompanyName)
	}
}

func TestGenerateForJDBlocked(t *testing.T) {
	svc, _ := newTestService(&fakeModel{resp: &llm.ModelResponse{BlockReason: "SAFETY"}})
	seedBase(t, svc)

	_, err := svc.GenerateForJD(context.Background(), "user-1", Request{JobDescription: "Go role"})
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected block reason in error, got %v", err)
	}
}

func TestKeywordsFromJD(t *testing.T) {
	jd := "Senior Go engineer, Go engineer, building scalable APIs!"
	keywords := KeywordsFromJD(jd)
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	seen := map[string]int{}
	for _, k := range keywords {
		seen[k]++
		if len(k) <= 3 {
			t.Fatalf("short word leaked: %q", k)
		}
	}
	for k, n := range seen {
		if n > 1 {
			t.Fatalf("duplicate keyword %q", k)
		}
	}
}
