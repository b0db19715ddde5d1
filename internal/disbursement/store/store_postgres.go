package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"expenseai/internal/disbursement/models"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
)

// PostgresStore persists expenses in PostgreSQL. Products are stored as a
// JSON document alongside the row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const expenseColumns = `id, expense_id, identity_key, scheme_id, vendor_identity_key, total_amount, products, is_fraudulent, reason, created_at`

// Create inserts the expense. A reused expense_id affects no rows and
// yields ErrConflict so the caller can retry with a fresh id.
func (s *PostgresStore) Create(ctx context.Context, expense *models.Expense) error {
	products, err := json.Marshal(expense.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	res, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (expense_id) DO NOTHING
	`,
		expense.ID, expense.ExpenseID, expense.IdentityKey, expense.SchemeID, expense.VendorIdentityKey,
		expense.TotalAmount, string(products), expense.IsFraudulent, expense.Reason, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert expense rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Expense, error) {
	return s.query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		ORDER BY seq
	`)
}

func (s *PostgresStore) ListByIdentity(ctx context.Context, identityKey string) ([]*models.Expense, error) {
	return s.query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE identity_key = $1
		ORDER BY seq
	`, identityKey)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []*models.Expense
	for rows.Next() {
		var (
			expense  models.Expense
			products string
			reason   sql.NullString
		)
		err := rows.Scan(&expense.ID, &expense.ExpenseID, &expense.IdentityKey, &expense.SchemeID,
			&expense.VendorIdentityKey, &expense.TotalAmount, &products, &expense.IsFraudulent, &reason, &expense.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if err := json.Unmarshal([]byte(products), &expense.Products); err != nil {
			return nil, fmt.Errorf("decode products for %s: %w", expense.ExpenseID, err)
		}
		if reason.Valid {
			r := reason.String
			expense.Reason = &r
		}
		out = append(out, &expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}
