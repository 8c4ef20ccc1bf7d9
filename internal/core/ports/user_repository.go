package ports

import (
	"context"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/predicate"
)

// UserRepository is the typed query surface over the user store. Lookups are
// exact, case-sensitive matches. Missing users yield domain.ErrUserNotFound;
// unique-index violations on email or telephone yield domain.ErrDuplicateResource.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByTelephone(ctx context.Context, telephone string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	// Save inserts the user when ID is empty and replaces it otherwise. The
	// returned copy carries the assigned ID.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// Search returns one page of users matching p, plus the total match count.
	Search(ctx context.Context, p predicate.Predicate, page domain.Page) ([]*domain.User, int64, error)
}
