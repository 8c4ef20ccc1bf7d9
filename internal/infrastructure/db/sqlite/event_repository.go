package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

// EventRepository implements ports.AccountEventRepository using SQLite.
type EventRepository struct {
	db *sql.DB
}

func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	var userID any
	if event.UserID != "" {
		userID = event.UserID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_events (id, type, email, user_id, occurred_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), event.Email, userID,
		event.OccurredAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}

// CountEvents returns how many events of typ were recorded for email.
func (r *EventRepository) CountEvents(ctx context.Context, email string, typ domain.AccountEventType) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account_events WHERE email = ? AND type = ?`, email, string(typ),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account events: %w", err)
	}
	return n, nil
}
