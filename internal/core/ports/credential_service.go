package ports

import (
	"context"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

// CredentialService registers, authenticates and updates accounts.
type CredentialService interface {
	Register(ctx context.Context, req domain.RegistrationRequest) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	// UpdateMyData applies upd to the account identified by identity (the
	// authenticated caller's email), gated on currentPassword.
	UpdateMyData(ctx context.Context, identity string, upd domain.ProfileUpdate, currentPassword string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	Profile(ctx context.Context, identity string) (*domain.UserView, error)
}

// UserDirectory serves the administrative user listing.
type UserDirectory interface {
	SearchUsers(ctx context.Context, filters map[string]string, page domain.Page) (*domain.UserPage, error)
	GetUser(ctx context.Context, id string) (*domain.UserView, error)
}
