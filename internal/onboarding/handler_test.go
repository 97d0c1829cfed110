package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/shared/cache"
)

func newTestRouter(t *testing.T, model llm.Client) (*gin.Engine, *Gate) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gate := NewGate(cache.NewMemoryStore(nil))
	svc, _, _ := newTestService(model)
	handler := NewHandler(gate, svc)

	router := gin.New()
	requireAuth := func(c *gin.Context) { c.Set("userId", "user-1"); c.Next() }
	handler.RegisterRoutes(router.Group("/onboard"), requireAuth)
	return router, gate
}

func multipartBody(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume_file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestGetDemoTokenEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/get-demo-token/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["token"] == "" || body["token"] == nil {
		t.Fatal("expected token in response")
	}
	if body["captcha_challenge"] == "" || body["captcha_challenge"] == nil {
		t.Fatal("expected captcha challenge in response")
	}
}

func TestProcessResumeRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})

	buf, contentType := multipartBody(t, "resume.txt", "Jane Doe")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume/", buf)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", rec.Code)
	}
}

func TestProcessResumeHappyPath(t *testing.T) {
	router, gate := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})
	token, err := gate.IssueToken(context.Background())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	buf, contentType := multipartBody(t, "resume.txt", "Jane Doe\njane@example.com")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume/", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Demo-Token", token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["resume_id"] == nil || body["resume_id"] == "" {
		t.Fatal("expected resume_id")
	}
	data, ok := body["enhanced_resume_data"].(map[string]any)
	if !ok || data["email"] != "jane@example.com" {
		t.Fatalf("expected enhanced_resume_data with email, got %v", body["enhanced_resume_data"])
	}
}

func TestProcessResumeMissingFile(t *testing.T) {
	router, gate := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})
	token, _ := gate.IssueToken(context.Background())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("captcha_answer", "4")
	_ = mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Demo-Token", token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rec.Code)
	}
}

func TestProcessResumeRejectsUnknownExtension(t *testing.T) {
	router, gate := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})
	token, _ := gate.IssueToken(context.Background())

	buf, contentType := multipartBody(t, "resume.exe", "bytes")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume/", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Demo-Token", token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported type, got %d", rec.Code)
	}
}

func TestProcessResumeBlockedReturns502(t *testing.T) {
	router, gate := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{BlockReason: "SAFETY"}})
	token, _ := gate.IssueToken(context.Background())

	buf, contentType := multipartBody(t, "resume.txt", "Jane Doe")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume/", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Demo-Token", token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for blocked content, got %d", rec.Code)
	}
}

func TestProcessResumeAuthenticatedSkipsGate(t *testing.T) {
	router, _ := newTestRouter(t, &fakeModel{extraction: &llm.ModelResponse{Text: extractionJSON}})

	buf, contentType := multipartBody(t, "resume.txt", "Jane Doe")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/onboard/process-resume-authenticated/", buf)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without demo token, got %d: %s", rec.Code, rec.Body.String())
	}
}
