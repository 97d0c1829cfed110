package resumes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.resumes[resume.ID] = resume
	return resume, nil
}

func (r *MemoryRepo) CreateAsBase(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Anonymous bases coexist; only a known user's prior base is demoted.
	if resume.UserID != "" {
		for id, existing := range r.resumes {
			if existing.UserID == resume.UserID && existing.IsBaseResume {
				existing.IsBaseResume = false
				existing.UpdatedAt = time.Now().UTC()
				r.resumes[id] = existing
			}
		}
	}
	resume.IsBaseResume = true
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.resumes[resume.ID] = resume
	return resume, nil
}

func (r *MemoryRepo) PromoteToBase(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.resumes[id]
	if !ok || target.UserID != userID {
		return Resume{}, ErrNotFound
	}
	for existingID, existing := range r.resumes {
		if existingID != id && existing.UserID == userID && existing.IsBaseResume {
			existing.IsBaseResume = false
			existing.UpdatedAt = time.Now().UTC()
			r.resumes[existingID] = existing
		}
	}
	target.IsBaseResume = true
	target.UpdatedAt = time.Now().UTC()
	r.resumes[id] = target
	return target, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.resumes[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

func (r *MemoryRepo) GetBase(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resume := range r.resumes {
		if resume.UserID == userID && resume.IsBaseResume {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Resume
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.resumes[resume.ID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	resume.UserID = existing.UserID
	resume.IsBaseResume = existing.IsBaseResume
	resume.CreatedAt = existing.CreatedAt
	resume.UpdatedAt = time.Now().UTC()
	r.resumes[resume.ID] = resume
	return resume, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.resumes[id]
	if !ok {
		return ErrNotFound
	}
	if resume.IsBaseResume {
		return ErrBaseUndeletable
	}
	delete(r.resumes, id)
	return nil
}

func (r *MemoryRepo) FindByContact(ctx context.Context, email, phone string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return Resume{}, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Resume
	for _, resume := range r.resumes {
		matched := (email != "" && strings.EqualFold(resume.Email, email)) ||
			(phone != "" && resume.Phone == phone)
		if !matched {
			continue
		}
		if best == nil || resume.CreatedAt.After(best.CreatedAt) {
			match := resume
			best = &match
		}
	}
	if best == nil {
		return Resume{}, ErrNotFound
	}
	return *best, nil
}
