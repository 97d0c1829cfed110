package bio

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	bios map[string]Bio // keyed by user id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bios: make(map[string]Bio)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, b Bio) (Bio, error) {
	if err := ctx.Err(); err != nil {
		return Bio{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.bios[b.UserID]
	if ok {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		b.Socials = existing.Socials
	} else {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.bios[b.UserID] = b
	return b, nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (Bio, error) {
	if err := ctx.Err(); err != nil {
		return Bio{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bios[userID]
	if !ok {
		return Bio{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) UpsertSocial(ctx context.Context, p SocialProfile) (SocialProfile, error) {
	if err := ctx.Err(); err != nil {
		return SocialProfile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, b := range r.bios {
		if b.ID != p.BioID {
			continue
		}
		now := time.Now().UTC()
		replaced := false
		for i, existing := range b.Socials {
			if strings.EqualFold(existing.Network, p.Network) {
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
				p.UpdatedAt = now
				b.Socials[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			p.CreatedAt = now
			p.UpdatedAt = now
			b.Socials = append(b.Socials, p)
			sort.Slice(b.Socials, func(i, j int) bool { return b.Socials[i].Network < b.Socials[j].Network })
		}
		r.bios[userID] = b
		return p, nil
	}
	return SocialProfile{}, ErrNotFound
}

func (r *MemoryRepo) DeleteSocial(ctx context.Context, bioID, socialID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, b := range r.bios {
		if b.ID != bioID {
			continue
		}
		for i, existing := range b.Socials {
			if existing.ID == socialID {
				b.Socials = append(b.Socials[:i], b.Socials[i+1:]...)
				r.bios[userID] = b
				return nil
			}
		}
		return ErrSocialNotFound
	}
	return ErrSocialNotFound
}
