package ports

import (
	"context"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

// AccountEventRepository persists the account audit trail.
type AccountEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}
