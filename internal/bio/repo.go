package bio

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("bio not found")
	ErrSocialNotFound = errors.New("social profile not found")
)

type Repo interface {
	Upsert(ctx context.Context, b Bio) (Bio, error)
	GetByUser(ctx context.Context, userID string) (Bio, error)
	// UpsertSocial replaces an existing profile for the same network.
	UpsertSocial(ctx context.Context, p SocialProfile) (SocialProfile, error)
	DeleteSocial(ctx context.Context, bioID, socialID string) error
}
