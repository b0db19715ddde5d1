package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expenseai/internal/platform/postgres"
	"expenseai/internal/user/models"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, identity_key, name, role, is_active, spending_limit, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user  models.User
		role  string
		limit sql.NullFloat64
	)
	if err := row.Scan(&user.ID, &user.IdentityKey, &user.Name, &role, &user.IsActive, &limit, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	if limit.Valid {
		user.SpendingLimit = &limit.Float64
	}
	return &user, nil
}

// Create inserts user; a taken identity key yields ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, query,
		user.ID, user.IdentityKey, user.Name, string(user.Role), user.IsActive, user.SpendingLimit, user.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByIdentityKey(ctx context.Context, identityKey string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE identity_key = $1`
	user, err := scanUser(tx.Execer(ctx, s.db).QueryRowContext(ctx, query, identityKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at, identity_key`
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var n int
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}
