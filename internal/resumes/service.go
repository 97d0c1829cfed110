package resumes

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

// SaveExtracted persists a freshly structured resume for a user. When the
// user has no base resume yet, or asBase is set, the new resume becomes
// the base and any previous base is demoted in the same transaction.
func (s *Service) SaveExtracted(ctx context.Context, userID string, resume Resume, asBase bool) (Resume, error) {
	if s == nil || s.Repo == nil {
		return Resume{}, errors.New("resumes service not configured")
	}
	resume.ID = uuid.NewString()
	resume.UserID = userID
	if resume.Name == "" {
		resume.Name = "Untitled Resume"
	}
	if !asBase {
		if _, err := s.Repo.GetBase(ctx, userID); errors.Is(err, ErrNotFound) {
			asBase = true
		}
	}
	if asBase {
		return s.Repo.CreateAsBase(ctx, resume)
	}
	return s.Repo.Create(ctx, resume)
}

func (s *Service) GetForUser(ctx context.Context, userID, resumeID string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

func (s *Service) GetBase(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetBase(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, resume Resume) (Resume, error) {
	if _, err := s.GetForUser(ctx, userID, resume.ID); err != nil {
		return Resume{}, err
	}
	return s.Repo.Update(ctx, resume)
}

func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if _, err := s.GetForUser(ctx, userID, resumeID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, resumeID)
}

// Promote makes an existing resume the user's base. The flag flip and the
// demotion of the previous base happen in one repo transaction, so the
// resume keeps its id and a failure leaves everything untouched.
func (s *Service) Promote(ctx context.Context, userID, resumeID string) (Resume, error) {
	resume, err := s.GetForUser(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if resume.IsBaseResume {
		return resume, nil
	}
	return s.Repo.PromoteToBase(ctx, userID, resumeID)
}

// FindByContact degrades to no match on blank inputs.
func (s *Service) FindByContact(ctx context.Context, email, phone string) (Resume, bool, error) {
	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		return Resume{}, false, nil
	}
	resume, err := s.Repo.FindByContact(ctx, email, phone)
	if errors.Is(err, ErrNotFound) {
		return Resume{}, false, nil
	}
	if err != nil {
		return Resume{}, false, err
	}
	return resume, true, nil
}
