package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expenseai/internal/application/models"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
)

// PostgresStore persists applications in PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	runner *tx.SQLRunner
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: tx.NewSQLRunner(db)}
}

const applicationColumns = `id, identity_key, scheme_id, eligible, government_decision, decided_by, created_at, decided_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app       models.Application
		decision  string
		decidedBy sql.NullString
		decidedAt sql.NullTime
	)
	if err := row.Scan(&app.ID, &app.IdentityKey, &app.SchemeID, &app.Eligible, &decision, &decidedBy, &app.CreatedAt, &decidedAt); err != nil {
		return nil, err
	}
	app.GovernmentDecision = models.Decision(decision)
	app.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		t := decidedAt.Time
		app.DecidedAt = &t
	}
	return &app, nil
}

func (s *PostgresStore) Append(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (id, identity_key, scheme_id, eligible, government_decision, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, query,
		app.ID, app.IdentityKey, app.SchemeID, app.Eligible, string(app.GovernmentDecision), app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

const latestQuery = `
	SELECT ` + applicationColumns + `
	FROM applications
	WHERE identity_key = $1 AND scheme_id = $2
	ORDER BY created_at DESC, seq DESC
	LIMIT 1
`

func (s *PostgresStore) Latest(ctx context.Context, identityKey, schemeID string) (*models.Application, error) {
	app, err := scanApplication(tx.Execer(ctx, s.db).QueryRowContext(ctx, latestQuery, identityKey, schemeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find latest application: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) History(ctx context.Context, identityKey, schemeID string) ([]*models.Application, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE identity_key = $1 AND scheme_id = $2
		ORDER BY created_at, seq
	`, identityKey, schemeID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

// Execute locks the latest application row with FOR UPDATE, validates and
// mutates it, then writes the decision back. The update is conditional on
// the row still being PENDING. It joins a transaction carried by ctx or
// opens its own.
func (s *PostgresStore) Execute(ctx context.Context, identityKey, schemeID string, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	var result *models.Application
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.Execer(ctx, s.db)
		app, err := scanApplication(exec.QueryRowContext(ctx, latestQuery+" FOR UPDATE", identityKey, schemeID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock latest application: %w", err)
		}
		if err := validate(app); err != nil {
			return err
		}
		mutate(app)

		var decidedAt any
		if app.DecidedAt != nil {
			decidedAt = app.DecidedAt.UTC().Truncate(time.Microsecond)
		}
		res, err := exec.ExecContext(ctx, `
			UPDATE applications
			SET government_decision = $2, decided_by = $3, decided_at = $4
			WHERE id = $1 AND government_decision = 'PENDING'
		`, app.ID, string(app.GovernmentDecision), nullString(app.DecidedBy), decidedAt)
		if err != nil {
			return fmt.Errorf("update application decision: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update application rows affected: %w", err)
		}
		if n == 0 {
			return sentinel.ErrInvalidState
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
