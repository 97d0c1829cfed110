package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.GET("", h.list)
	rg.GET("/base", h.getBase)
	rg.POST("/create-base", h.createBase)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/promote", h.promote)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	if items == nil {
		items = []Resume{}
	}
	respond.OK(c, gin.H{"resumes": items})
}

func (h *Handler) getBase(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resume, err := h.Svc.GetBase(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no base resume", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load base resume", nil)
		return
	}
	respond.OK(c, resume)
}

// createBase stores a hand-entered resume as the user's base, demoting any
// previous one.
func (h *Handler) createBase(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var body Resume
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid resume payload", nil)
		return
	}
	resume, err := h.Svc.SaveExtracted(c.Request.Context(), userID, body, true)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create base resume", nil)
		return
	}
	respond.Created(c, resume)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resume, err := h.Svc.GetForUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var body Resume
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid resume payload", nil)
		return
	}
	body.ID = c.Param("id")
	resume, err := h.Svc.Update(c.Request.Context(), userID, body)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update resume", nil)
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, ErrBaseUndeletable):
		respond.Error(c, http.StatusConflict, "base_resume_protected", "base resume cannot be deleted", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete resume", nil)
	}
}

func (h *Handler) promote(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resume, err := h.Svc.Promote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to promote resume", nil)
		return
	}
	respond.OK(c, resume)
}
