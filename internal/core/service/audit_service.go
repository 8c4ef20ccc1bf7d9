package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

type auditService struct {
	repo ports.AccountEventRepository
	now  func() time.Time
	log  zerolog.Logger
}

// NewAuditService returns an AuditProcessor writing to repo.
func NewAuditService(repo ports.AccountEventRepository, log zerolog.Logger) ports.AuditProcessor {
	return &auditService{repo: repo, now: time.Now, log: log}
}

// Process stamps an id and timestamp where missing and persists the event.
func (s *auditService) Process(ctx context.Context, event domain.AccountEvent) error {
	if event.Type == "" || event.Email == "" {
		return fmt.Errorf("%w: audit event needs a type and an email", domain.ErrInvalidInput)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if event.Type == domain.EventLoginFailed {
		s.log.Warn().Str("email", event.Email).Msg("failed login recorded")
	}
	return nil
}
