package resumes

import "context"

type Repo interface {
	Create(ctx context.Context, resume Resume) (Resume, error)
	// CreateAsBase atomically unmarks any existing base resume for the
	// user and inserts the new one flagged as base. Anonymous resumes
	// (empty user id) never demote each other.
	CreateAsBase(ctx context.Context, resume Resume) (Resume, error)
	// PromoteToBase flips the base flag onto an existing resume,
	// demoting the user's current base in the same transaction.
	PromoteToBase(ctx context.Context, userID, id string) (Resume, error)
	GetByID(ctx context.Context, id string) (Resume, error)
	GetBase(ctx context.Context, userID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, resume Resume) (Resume, error)
	Delete(ctx context.Context, id string) error
	// FindByContact matches email case-insensitively or phone exactly.
	// Either argument may be empty and is then ignored.
	FindByContact(ctx context.Context, email, phone string) (Resume, error)
}
