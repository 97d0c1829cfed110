package generation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/shared/server/middleware"
	"tailorcv-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid generation payload", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "jd_text is required", nil)
		return
	}

	resume, err := h.Svc.GenerateForJD(c.Request.Context(), userID, req)
	switch {
	case err == nil:
		respond.Created(c, gin.H{
			"message":          "Tailored resume generated successfully.",
			"resume_id":        resume.ID,
			"generated_resume": resume,
		})
	case errors.Is(err, ErrNoBaseResume):
		respond.Error(c, http.StatusBadRequest, "no_base_resume", "Create a base resume before generating tailored versions.", nil)
	case errors.Is(err, ErrBlocked):
		respond.Error(c, http.StatusBadRequest, "blocked", err.Error(), nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "Generative model is not configured.", nil)
	case errors.Is(err, ErrModel):
		respond.Error(c, http.StatusBadGateway, "upstream_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate resume", nil)
	}
}
