package jobposts

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job post not found")

type Repo interface {
	Create(ctx context.Context, post JobPost) (JobPost, error)
	GetByID(ctx context.Context, id string) (JobPost, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (JobPost, error)
	List(ctx context.Context, limit int) ([]JobPost, error)
}
