package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/shared/server/middleware"
	"tailorcv-backend/internal/shared/server/respond"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me returns the stored user record, creating it from the verified token
// claims on first sight.
func (h *Handler) me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)

	user, err := h.Repo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		email := middleware.UserEmailFromContext(c)
		if email == "" {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		first, last := splitName(middleware.UserNameFromContext(c))
		user = User{ID: userID, Email: email, FirstName: first, LastName: last}
		if err := h.Repo.Upsert(ctx, user); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store user", nil)
			return
		}
		if stored, err := h.Repo.GetByID(ctx, userID); err == nil {
			user = stored
		}
	} else if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}

	respond.OK(c, user)
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if first, last, ok := strings.Cut(full, " "); ok {
		return first, strings.TrimSpace(last)
	}
	return full, ""
}
