package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expenseai/internal/platform/postgres"
	"expenseai/internal/scheme/models"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
)

// PostgresStore persists schemes in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, schemeID string) (*models.Scheme, error) {
	query := `
		SELECT scheme_id, name, description, max_income, min_family_size
		FROM schemes
		WHERE scheme_id = $1
	`
	var scheme models.Scheme
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx, query, schemeID).Scan(
		&scheme.SchemeID, &scheme.Name, &scheme.Description, &scheme.MaxIncome, &scheme.MinFamilySize,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find scheme: %w", err)
	}
	return &scheme, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Scheme, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT scheme_id, name, description, max_income, min_family_size
		FROM schemes
		ORDER BY scheme_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer rows.Close()

	var out []*models.Scheme
	for rows.Next() {
		var scheme models.Scheme
		if err := rows.Scan(&scheme.SchemeID, &scheme.Name, &scheme.Description, &scheme.MaxIncome, &scheme.MinFamilySize); err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		out = append(out, &scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schemes: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Execer(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM schemes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count schemes: %w", err)
	}
	return n, nil
}

// CreateMany inserts schemes. Run it inside tx.Runner for all-or-nothing semantics.
func (s *PostgresStore) CreateMany(ctx context.Context, schemes []*models.Scheme) error {
	query := `
		INSERT INTO schemes (scheme_id, name, description, max_income, min_family_size)
		VALUES ($1, $2, $3, $4, $5)
	`
	exec := tx.Execer(ctx, s.db)
	for _, scheme := range schemes {
		_, err := exec.ExecContext(ctx, query,
			scheme.SchemeID, scheme.Name, scheme.Description, scheme.MaxIncome, scheme.MinFamilySize,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert scheme %s: %w", scheme.SchemeID, err)
		}
	}
	return nil
}
