package service

import (
	"context"
	"fmt"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
	"github.com/99minutos/accounts-service/internal/core/predicate"
)

// UserDirectory serves the administrative listing of accounts.
type UserDirectory struct {
	users ports.UserRepository
}

func NewUserDirectory(users ports.UserRepository) *UserDirectory {
	return &UserDirectory{users: users}
}

// SearchUsers builds a predicate from filters (role, general) and returns the
// requested page. Unknown filter keys are ignored.
func (d *UserDirectory) SearchUsers(ctx context.Context, filters map[string]string, page domain.Page) (*domain.UserPage, error) {
	pred, err := predicate.Build(filters)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	users, total, err := d.users.Search(ctx, pred, page)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	items := make([]*domain.UserView, 0, len(users))
	for _, u := range users {
		items = append(items, domain.NewUserView(u))
	}

	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return &domain.UserPage{
		Items:      items,
		Page:       page.Number,
		Size:       page.Size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetUser returns a single account by id.
func (d *UserDirectory) GetUser(ctx context.Context, id string) (*domain.UserView, error) {
	u, err := d.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewUserView(u), nil
}
