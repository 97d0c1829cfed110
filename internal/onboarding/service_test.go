package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/extract"
	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/resumes"
	"tailorcv-backend/internal/users"
)

const extractionJSON = `{
	"first_name": "Jane",
	"last_name": "Doe",
	"email": "jane@example.com",
	"phone": "555-1234",
	"summary": "Engineer.",
	"work": [],
	"skills": [],
	"analysis": "Strong backend profile with quantified impact."
}`

// fakeModel answers the contact prompt and the extraction prompt with
// canned responses, keyed off the prompt body.
type fakeModel struct {
	contact    *llm.ModelResponse
	extraction *llm.ModelResponse
	err        error
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, att *llm.Attachment) (*llm.ModelResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(prompt, "--- SNIPPET ---") {
		if f.contact != nil {
			return f.contact, nil
		}
		return &llm.ModelResponse{Text: "{}"}, nil
	}
	return f.extraction, nil
}

func newTestService(model llm.Client) (*Service, *resumes.MemoryRepo, *users.MemoryRepo) {
	resumeRepo := resumes.NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	svc := &Service{
		Extractor: &extract.Extractor{},
		Model:     model,
		Resumes:   resumes.NewService(resumeRepo),
		Users:     userRepo,
		Bios:      bio.NewService(bio.NewMemoryRepo()),
	}
	return svc, resumeRepo, userRepo
}

func textUpload(content string) Upload {
	return Upload{Data: []byte(content), MIMEType: "text/plain", FileName: "resume.txt"}
}

func TestProcessUploadHappyPath(t *testing.T) {
	model := &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}}
	svc, repo, _ := newTestService(model)

	result, err := svc.ProcessUpload(context.Background(), "", textUpload("Jane Doe\njane@example.com"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.Kind != ResultCreated {
		t.Fatalf("expected created, got %s", result.Kind)
	}
	if result.Data["email"] != "jane@example.com" {
		t.Fatalf("expected email in enhanced data, got %v", result.Data)
	}
	saved, err := repo.GetByID(context.Background(), result.ResumeID)
	if err != nil {
		t.Fatalf("saved resume missing: %v", err)
	}
	if saved.Name != "Jane Doe Resume" {
		t.Fatalf("unexpected resume name %q", saved.Name)
	}
	if !saved.IsBaseResume {
		t.Fatal("anonymous upload should be stored as base")
	}
	if saved.Analysis != "Strong backend profile with quantified impact." {
		t.Fatalf("analysis not carried through, got %q", saved.Analysis)
	}
}

func TestProcessUploadDuplicateUser(t *testing.T) {
	model := &fakeModel{
		contact:    &llm.ModelResponse{Text: `{"first_name": "Jane", "email": "jane@example.com"}`},
		extraction: &llm.ModelResponse{Text: extractionJSON},
	}
	svc, repo, userRepo := newTestService(model)
	if err := userRepo.Upsert(context.Background(), users.User{ID: "u1", Email: "JANE@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	result, err := svc.ProcessUpload(context.Background(), "", textUpload("Jane Doe\njane@example.com"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.Kind != ResultDuplicateUser {
		t.Fatalf("expected duplicate user, got %s", result.Kind)
	}
	if list, _ := repo.ListByUser(context.Background(), ""); len(list) != 0 {
		t.Fatal("duplicate detection must not persist a resume")
	}
}

func TestProcessUploadDuplicateResume(t *testing.T) {
	model := &fakeModel{
		contact:    &llm.ModelResponse{Text: `{"email": "jane@example.com"}`},
		extraction: &llm.ModelResponse{Text: extractionJSON},
	}
	svc, repo, _ := newTestService(model)
	existing, err := repo.Create(context.Background(), resumes.Resume{ID: "r1", Name: "old", Email: "Jane@Example.com"})
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	result, err := svc.ProcessUpload(context.Background(), "", textUpload("Jane Doe\njane@example.com"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.Kind != ResultDuplicateResume {
		t.Fatalf("expected duplicate resume, got %s", result.Kind)
	}
	if result.ResumeID != existing.ID {
		t.Fatalf("expected matched resume id %s, got %s", existing.ID, result.ResumeID)
	}
}

func TestProcessUploadContactFailureDegrades(t *testing.T) {
	model := &fakeModel{
		contact:    &llm.ModelResponse{Text: "no json here at all"},
		extraction: &llm.ModelResponse{Text: extractionJSON},
	}
	svc, _, _ := newTestService(model)

	result, err := svc.ProcessUpload(context.Background(), "", textUpload("Jane Doe"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.Kind != ResultCreated {
		t.Fatalf("contact failure should fall through to processing, got %s", result.Kind)
	}
}

func TestProcessUploadBlocked(t *testing.T) {
	model := &fakeModel{extraction: &llm.ModelResponse{BlockReason: "SAFETY"}}
	svc, _, _ := newTestService(model)

	_, err := svc.ProcessUpload(context.Background(), "user-1", textUpload("Jane Doe"))
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailureModel {
		t.Fatalf("expected model failure, got %v", err)
	}
	if !strings.Contains(strings.ToLower(failure.Message), "blocked") {
		t.Fatalf("blocked message should say so, got %q", failure.Message)
	}
}

type failingResumeRepo struct {
	*resumes.MemoryRepo
}

func (r *failingResumeRepo) Create(ctx context.Context, resume resumes.Resume) (resumes.Resume, error) {
	return resumes.Resume{}, errors.New("db down")
}

func (r *failingResumeRepo) CreateAsBase(ctx context.Context, resume resumes.Resume) (resumes.Resume, error) {
	return resumes.Resume{}, errors.New("db down")
}

func TestProcessUploadPersistFailureReturnsData(t *testing.T) {
	model := &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}}
	svc, _, _ := newTestService(model)
	svc.Resumes = resumes.NewService(&failingResumeRepo{resumes.NewMemoryRepo()})

	_, err := svc.ProcessUpload(context.Background(), "user-1", textUpload("Jane Doe"))
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailurePersist {
		t.Fatalf("expected persist failure, got %v", err)
	}
	if failure.Data == nil || failure.Data["email"] != "jane@example.com" {
		t.Fatal("persist failure must carry the generated data")
	}
}

func TestProcessUploadAuthenticatedSkipsDuplicateChecks(t *testing.T) {
	calls := 0
	model := &countingModel{inner: &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}}, calls: &calls}
	svc, _, userRepo := newTestService(model)
	_ = userRepo.Upsert(context.Background(), users.User{ID: "user-1", Email: "jane@example.com"})

	result, err := svc.ProcessUpload(context.Background(), "user-1", textUpload("Jane Doe\njane@example.com"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.Kind != ResultCreated {
		t.Fatalf("authenticated re-upload should process, got %s", result.Kind)
	}
	if calls != 1 {
		t.Fatalf("expected a single model call, got %d", calls)
	}
}

func TestProcessUploadAuthenticatedReplacesBase(t *testing.T) {
	model := &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}}
	svc, repo, _ := newTestService(model)
	old, err := svc.Resumes.SaveExtracted(context.Background(), "user-1", resumes.Resume{Name: "Old"}, true)
	if err != nil {
		t.Fatalf("seed base: %v", err)
	}

	result, err := svc.ProcessUpload(context.Background(), "user-1", textUpload("Jane Doe"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	saved, err := repo.GetByID(context.Background(), result.ResumeID)
	if err != nil {
		t.Fatalf("saved resume missing: %v", err)
	}
	if !saved.IsBaseResume {
		t.Fatal("authenticated upload must become the base resume")
	}
	demoted, err := repo.GetByID(context.Background(), old.ID)
	if err != nil {
		t.Fatalf("old base missing: %v", err)
	}
	if demoted.IsBaseResume {
		t.Fatal("previous base should have been demoted")
	}
}

type countingModel struct {
	inner llm.Client
	calls *int
}

func (m *countingModel) Generate(ctx context.Context, prompt string, att *llm.Attachment) (*llm.ModelResponse, error) {
	*m.calls++
	return m.inner.Generate(ctx, prompt, att)
}
