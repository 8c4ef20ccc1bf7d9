package ports

import (
	"context"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

// AuditRecorder accepts account events for asynchronous persistence. Record
// must not block the caller on storage.
type AuditRecorder interface {
	Record(event domain.AccountEvent)
}

// AuditProcessor persists a single account event; the dispatcher workers
// call it off the request path.
type AuditProcessor interface {
	Process(ctx context.Context, event domain.AccountEvent) error
}
