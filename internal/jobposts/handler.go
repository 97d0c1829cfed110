package jobposts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	var body JobPost
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid job post payload", nil)
		return
	}
	post, err := h.Svc.CreateOrGet(c.Request.Context(), body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	respond.Created(c, post)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	posts, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list job posts", nil)
		return
	}
	if posts == nil {
		posts = []JobPost{}
	}
	respond.OK(c, gin.H{"jobPosts": posts})
}

func (h *Handler) get(c *gin.Context) {
	post, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job post not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job post", nil)
		return
	}
	respond.OK(c, post)
}
