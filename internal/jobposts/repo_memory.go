package jobposts

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	posts map[string]JobPost
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{posts: make(map[string]JobPost)}
}

func (r *MemoryRepo) Create(ctx context.Context, post JobPost) (JobPost, error) {
	if err := ctx.Err(); err != nil {
		return JobPost{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for id, existing := range r.posts {
		if existing.SourceURL == post.SourceURL {
			post.ID = id
			post.CreatedAt = existing.CreatedAt
			post.UpdatedAt = now
			r.posts[id] = post
			return post, nil
		}
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	r.posts[post.ID] = post
	return post, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (JobPost, error) {
	if err := ctx.Err(); err != nil {
		return JobPost{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id]
	if !ok {
		return JobPost{}, ErrNotFound
	}
	return post, nil
}

func (r *MemoryRepo) GetBySourceURL(ctx context.Context, sourceURL string) (JobPost, error) {
	if err := ctx.Err(); err != nil {
		return JobPost{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, post := range r.posts {
		if post.SourceURL == sourceURL {
			return post, nil
		}
	}
	return JobPost{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, limit int) ([]JobPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]JobPost, 0, len(r.posts))
	for _, post := range r.posts {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
