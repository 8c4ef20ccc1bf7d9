package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// AdminSeed describes the administrator created on an empty install.
type AdminSeed struct {
	Name      string
	Surnames  string
	Email     string
	Telephone string
	Password  string
}

// SeedAdmin creates the default administrator when no ADMIN exists yet. It
// reports whether a user was created. An empty password disables seeding.
func SeedAdmin(ctx context.Context, users ports.UserRepository, hasher ports.PasswordHasher, seed AdminSeed, log zerolog.Logger) (bool, error) {
	if seed.Password == "" {
		log.Debug().Msg("admin seeding disabled")
		return false, nil
	}

	n, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("seed admin: count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	now := time.Now().UTC()
	admin, err := users.Save(ctx, &domain.User{
		Name:         seed.Name,
		Surnames:     seed.Surnames,
		Email:        seed.Email,
		Telephone:    seed.Telephone,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("default administrator created")
	return true, nil
}
