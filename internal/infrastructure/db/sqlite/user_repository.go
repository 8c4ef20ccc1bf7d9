package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/predicate"
)

const userColumns = `id, name, surnames, email, telephone, password_hash, role, created_at, updated_at`

// UserRepository implements ports.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                domain.User
		role             string
		created, updated int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Surnames, &u.Email, &u.Telephone, &u.PasswordHash, &role, &created, &updated); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(updated, 0).UTC()
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) FindByTelephone(ctx context.Context, telephone string) (*domain.User, error) {
	return r.findOne(ctx, "telephone", telephone)
}

// findOne looks a user up by one of the fixed key columns above.
func (r *UserRepository) findOne(ctx context.Context, col, value string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+col+` = ?`, value)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", col, err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// Save inserts users without an ID (assigning a UUID) and updates the rest.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	out := user.Clone()

	if out.ID == "" {
		out.ID = uuid.NewString()
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			out.ID, out.Name, out.Surnames, out.Email, out.Telephone, out.PasswordHash,
			out.Role.String(), out.CreatedAt.Unix(), out.UpdatedAt.Unix(),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, fmt.Errorf("%w: email or telephone already registered", domain.ErrDuplicateResource)
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return out, nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, surnames = ?, email = ?, telephone = ?, password_hash = ?,
		 role = ?, updated_at = ? WHERE id = ?`,
		out.Name, out.Surnames, out.Email, out.Telephone, out.PasswordHash,
		out.Role.String(), out.UpdatedAt.Unix(), out.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: email or telephone already registered", domain.ErrDuplicateResource)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return out, nil
}

// Search returns one page of matching users, oldest first, plus the total
// match count.
func (r *UserRepository) Search(ctx context.Context, p predicate.Predicate, page domain.Page) ([]*domain.User, int64, error) {
	where, args, err := toWhere(p)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where +
		` ORDER BY created_at, rowid LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
