package jobposts

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateOrGet stores a job post keyed by its source URL. A repeated URL
// refreshes the stored fields instead of duplicating the post.
func (s *Service) CreateOrGet(ctx context.Context, post JobPost) (JobPost, error) {
	post.SourceURL = strings.TrimSpace(post.SourceURL)
	if post.SourceURL == "" {
		return JobPost{}, errors.New("source url is required")
	}
	if _, err := url.ParseRequestURI(post.SourceURL); err != nil {
		return JobPost{}, errors.New("source url is not a valid URL")
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return s.Repo.Create(ctx, post)
}

func (s *Service) Get(ctx context.Context, id string) (JobPost, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]JobPost, error) {
	return s.Repo.List(ctx, limit)
}
