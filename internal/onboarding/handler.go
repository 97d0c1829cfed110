package onboarding

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/shared/server/middleware"
	"tailorcv-backend/internal/shared/server/respond"
	"tailorcv-backend/internal/shared/telemetry"
	"tailorcv-backend/internal/shared/util"
)

// maxUploadBytes caps resume uploads at 5 MiB.
const maxUploadBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

type Handler struct {
	Gate *Gate
	Svc  *Service
}

func NewHandler(gate *Gate, svc *Service) *Handler {
	return &Handler{Gate: gate, Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/get-demo-token/", h.getDemoToken)
	rg.POST("/process-resume/", h.processResume)
	rg.POST("/process-resume-authenticated/", requireAuth, h.processResumeAuthenticated)
}

func (h *Handler) getDemoToken(c *gin.Context) {
	ctx := c.Request.Context()
	challenge, err := h.Gate.GenerateCaptcha(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate captcha", nil)
		return
	}
	token, err := h.Gate.IssueToken(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate token", nil)
		return
	}
	respond.OK(c, gin.H{
		"token":             token,
		"captcha_challenge": challenge,
		"message":           "Token generated successfully. Use this token in the X-Demo-Token header for resume uploads.",
	})
}

func (h *Handler) processResume(c *gin.Context) {
	ok, message := h.Gate.Validate(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("X-Demo-Token"),
		c.PostForm("captcha_challenge"),
		c.PostForm("captcha_answer"),
	)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", message, nil)
		return
	}
	h.handleUpload(c, "")
}

func (h *Handler) processResumeAuthenticated(c *gin.Context) {
	h.handleUpload(c, middleware.UserIDFromContext(c))
}

func (h *Handler) handleUpload(c *gin.Context, userID string) {
	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.Svc.ProcessUpload(c.Request.Context(), userID, upload)
	if err != nil {
		h.writeFailure(c, err)
		return
	}

	switch result.Kind {
	case ResultDuplicateUser:
		respond.OK(c, gin.H{
			"message":              result.Message,
			"resume_id":            nil,
			"enhanced_resume_data": nil,
			"is_duplicate_user":    true,
		})
	case ResultDuplicateResume:
		respond.OK(c, gin.H{
			"message":              result.Message,
			"resume_id":            result.ResumeID,
			"enhanced_resume_data": result.Resume,
			"is_duplicate":         true,
		})
	default:
		respond.Created(c, gin.H{
			"message":              result.Message,
			"resume_id":            result.ResumeID,
			"enhanced_resume_data": result.Data,
		})
	}
}

func (h *Handler) readUpload(c *gin.Context) (Upload, bool) {
	file, err := c.FormFile("resume_file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "No resume file provided", nil)
		return Upload{}, false
	}
	if file.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Resume file exceeds the 5MB limit", nil)
		return Upload{}, false
	}
	name, err := util.SanitizeFileName(file.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid file name", nil)
		return Upload{}, false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Unsupported file type. Upload a PDF, DOC, DOCX, or TXT resume.", nil)
		return Upload{}, false
	}

	data, err := readAll(file)
	if err != nil {
		telemetry.Error("onboarding.upload.read_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Could not read uploaded file", nil)
		return Upload{}, false
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Uploaded file is empty", nil)
		return Upload{}, false
	}

	return Upload{
		Data:     data,
		MIMEType: file.Header.Get("Content-Type"),
		FileName: name,
	}, true
}

func (h *Handler) writeFailure(c *gin.Context, err error) {
	var failure *Failure
	if !errors.As(err, &failure) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "resume processing failed", nil)
		return
	}
	switch failure.Kind {
	case FailureModel:
		respond.Error(c, http.StatusBadGateway, "upstream_error", failure.Message, nil)
	case FailureInvalidData:
		respond.Error(c, http.StatusBadRequest, "invalid_data", failure.Message, nil)
	case FailurePersist:
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"error":                failure.Message,
			"enhanced_resume_data": failure.Data,
		})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", failure.Message, nil)
	}
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
}
