package bio

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) Get(ctx context.Context, userID string) (Bio, error) {
	return s.Repo.GetByUser(ctx, userID)
}

func (s *Service) Save(ctx context.Context, userID string, b Bio) (Bio, error) {
	if strings.TrimSpace(userID) == "" {
		return Bio{}, errors.New("user id is required")
	}
	b.UserID = userID
	if b.ID == "" {
		if existing, err := s.Repo.GetByUser(ctx, userID); err == nil {
			b.ID = existing.ID
		} else {
			b.ID = uuid.NewString()
		}
	}
	return s.Repo.Upsert(ctx, b)
}

// SeedFromExtraction fills an empty bio from structured resume output.
// An existing bio is left untouched.
type Seed struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Location  string
	Summary   string
	Socials   []SocialProfile
}

func (s *Service) SeedFromExtraction(ctx context.Context, userID string, seed Seed) (Bio, error) {
	if existing, err := s.Repo.GetByUser(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Bio{}, err
	}

	b := Bio{
		ID:          uuid.NewString(),
		UserID:      userID,
		FirstName:   seed.FirstName,
		LastName:    seed.LastName,
		Email:       seed.Email,
		Phone:       seed.Phone,
		BaseSummary: seed.Summary,
	}
	if city, state := splitLocation(seed.Location); city != "" {
		b.CurrentCity = city
		b.CurrentState = state
	}
	saved, err := s.Repo.Upsert(ctx, b)
	if err != nil {
		return Bio{}, err
	}
	for _, social := range seed.Socials {
		if strings.TrimSpace(social.URL) == "" || strings.TrimSpace(social.Network) == "" {
			continue
		}
		social.ID = uuid.NewString()
		social.BioID = saved.ID
		if _, err := s.Repo.UpsertSocial(ctx, social); err != nil {
			return Bio{}, err
		}
	}
	return s.Repo.GetByUser(ctx, userID)
}

func (s *Service) SaveSocial(ctx context.Context, userID string, p SocialProfile) (SocialProfile, error) {
	b, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return SocialProfile{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.BioID = b.ID
	return s.Repo.UpsertSocial(ctx, p)
}

func (s *Service) DeleteSocial(ctx context.Context, userID, socialID string) error {
	b, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteSocial(ctx, b.ID, socialID)
}

func splitLocation(location string) (string, string) {
	parts := strings.SplitN(location, ",", 2)
	city := strings.TrimSpace(parts[0])
	state := ""
	if len(parts) == 2 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
