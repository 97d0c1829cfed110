package bio

import (
	"errors"
	"net/http"
	"strings"

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
	rg.GET("", h.get)
	rg.PUT("", h.save)
	rg.POST("/socials", h.saveSocial)
	rg.DELETE("/socials/:id", h.deleteSocial)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	b, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "bio not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load bio", nil)
		return
	}
	respond.OK(c, b)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var body Bio
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid bio payload", nil)
		return
	}
	b, err := h.Svc.Save(c.Request.Context(), userID, body)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save bio", nil)
		return
	}
	respond.OK(c, b)
}

func (h *Handler) saveSocial(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var body SocialProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid social profile payload", nil)
		return
	}
	if strings.TrimSpace(body.Network) == "" || strings.TrimSpace(body.URL) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "network and url are required", nil)
		return
	}
	p, err := h.Svc.SaveSocial(c.Request.Context(), userID, body)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "bio not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save social profile", nil)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) deleteSocial(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Svc.DeleteSocial(c.Request.Context(), userID, c.Param("id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSocialNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "social profile not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete social profile", nil)
	}
}
